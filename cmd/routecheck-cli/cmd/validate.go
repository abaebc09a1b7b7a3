package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"routecheck/internal/adapters/sqlite"
	"routecheck/internal/application"
	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

var (
	validateForce bool
	validateJSON  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project's channel routing",
	Long: `Scan the project and report routing issues with suggested fixes.

Examples:
  routecheck-cli validate
  routecheck-cli validate --json
  routecheck-cli -p mix.rpp validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		vc := commands.NewValidateCommand(engine, validateForce)
		result, err := vc.Execute(ctx)
		if err != nil {
			return err
		}
		recordRun(result.Report)

		if validateJSON {
			return printJSON(result.Report)
		}
		printReport(result.Report)
		if !result.Report.Clean() {
			os.Exit(1)
		}
		return nil
	},
}

func printReport(report *application.Report) {
	g := report.Graph
	fmt.Printf("%d tracks scanned in %s", len(g.Nodes), report.Duration.Round(time.Microsecond))
	if report.FromCache {
		fmt.Print(" (cached)")
	}
	fmt.Println()

	if report.Clean() {
		color.Green("No routing issues found")
		return
	}

	fmt.Println()
	for i, issue := range report.Issues {
		severityColor(issue.Severity).Printf("%-7s", issue.Severity)
		fmt.Printf(" %d. %s - %s\n", i+1, domain.TrackLabel(g, issue.TrackIndex), issue.Description)
	}

	if len(report.Suggestions) > 0 {
		fmt.Println("\nSuggested fixes:")
		for _, s := range report.Suggestions {
			fmt.Printf("  %-12s %s", s.ID, s.Reason)
			if s.RequiresChoice {
				color.Yellow("  (needs: fix %s --choose smpte|film)", s.ID)
			} else {
				fmt.Println()
			}
		}
		fmt.Println("\nRun `routecheck-cli fix --all` or `routecheck-cli fix <id>`.")
	}
}

func severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// recordRun appends the run to the history database. History failures never
// fail the validation itself.
func recordRun(report *application.Report) {
	if !cfg.History || report.FromCache {
		return
	}
	store := sqlite.NewHistory()
	if err := store.Open(cfg.HistoryDB); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := domain.CountRun(projectPath, report.Graph, report.Issues, report.Duration)
	if err := store.RecordRun(&run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&validateForce, "force", "f", false, "drop the cached scan and re-read the project")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit the report as JSON")
}
