package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"routecheck/internal/adapters/sqlite"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent validation runs for this project",
	Long: `Show recent validation runs recorded for the project, newest first.

Example:
  routecheck-cli history --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := sqlite.NewHistory()
		if err := store.Open(cfg.HistoryDB); err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()

		runs, err := store.RecentRuns(projectPath, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %3d tracks  %8s  ", run.RunAt.Format(time.DateTime), run.Tracks, run.Duration.Round(time.Microsecond))
			if run.Clean() {
				color.Green("clean")
				continue
			}
			fmt.Printf("%s %s %s\n",
				color.RedString("%dE", run.Errors),
				color.YellowString("%dW", run.Warnings),
				color.CyanString("%dI", run.Infos))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
}
