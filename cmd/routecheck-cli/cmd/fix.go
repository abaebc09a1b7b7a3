package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

var (
	fixAll    bool
	fixChoose string
)

var fixCmd = &cobra.Command{
	Use:   "fix [suggestion-id]",
	Short: "Apply suggested routing fixes",
	Long: `Validate the project and apply fixes.

With a suggestion ID, applies that one fix. With --all, applies every fix
that does not require a convention choice. Ordering-convention conflicts
must be resolved explicitly with --choose.

Examples:
  routecheck-cli fix --all
  routecheck-cli fix cap-low-3
  routecheck-cli fix order-1 --choose smpte`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		vc := commands.NewValidateCommand(engine, false)
		result, err := vc.Execute(ctx)
		if err != nil {
			return err
		}
		report := result.Report

		if report.Clean() {
			color.Green("No routing issues found")
			return nil
		}

		if fixChoose != "" {
			if len(args) != 1 {
				return fmt.Errorf("--choose needs a suggestion ID")
			}
			order, err := domain.ParseChannelOrder(fixChoose)
			if err != nil {
				return err
			}
			rc := commands.NewResolveChoiceCommand(engine, report, args[0], order)
			res, err := rc.Execute(ctx)
			if err != nil {
				return err
			}
			color.Green("%s", res.Message)
			return nil
		}

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		ac := commands.NewApplyCommand(engine, report, id, fixAll)
		res, err := ac.Execute(ctx)
		if res != nil {
			for _, applied := range res.Applied {
				color.Green("applied %s", applied)
			}
			for _, failed := range res.Failed {
				color.Red("failed %s: %v", failed.SuggestionID, failed.Err)
			}
			if fixAll && len(res.Applied) == 0 && len(res.Failed) == 0 {
				fmt.Println(res.Message)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().BoolVarP(&fixAll, "all", "a", false, "apply every fix that needs no choice")
	fixCmd.Flags().StringVar(&fixChoose, "choose", "", "resolve an ordering conflict with this convention (smpte or film)")
}
