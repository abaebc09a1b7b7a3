package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the project's track hierarchy",
	Long: `Display the track hierarchy with channel counts. Managed tracks are
marked with *, and tracks carrying issues show their worst severity.

Example:
  routecheck-cli tree`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		vc := commands.NewValidateCommand(engine, false)
		result, err := vc.Execute(ctx)
		if err != nil {
			return err
		}
		g := result.Report.Graph

		if g.MasterBus != nil {
			printTrack(g.MasterBus, 0)
		}
		for _, i := range g.TopLevel {
			printSubtree(g, i, 1)
		}
		return nil
	},
}

func printSubtree(g *domain.ProjectGraph, idx, depth int) {
	n := g.Node(idx)
	if n == nil {
		return
	}
	printTrack(n, depth)
	for _, child := range n.Children {
		printSubtree(g, child, depth+1)
	}
}

func printTrack(n *domain.TrackNode, depth int) {
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if n.ID == domain.MasterID {
		name = "Master"
	}
	fmt.Printf("%s%s (%dch)", indent, name, n.ChannelCount)
	if n.IsManaged {
		fmt.Print(" *")
	}
	if s, ok := worstSeverity(n.Issues); ok {
		severityColor(s).Printf("  %s", s)
	}
	fmt.Println()
}

func worstSeverity(issues []domain.Issue) (domain.Severity, bool) {
	if len(issues) == 0 {
		return 0, false
	}
	worst := issues[0].Severity
	for _, issue := range issues[1:] {
		if issue.Severity > worst {
			worst = issue.Severity
		}
	}
	return worst, true
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
