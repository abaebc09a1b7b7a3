package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"routecheck/internal/adapters/manifest"
	"routecheck/internal/adapters/rpp"
	"routecheck/internal/application"
	"routecheck/internal/config"
)

var (
	projectPath string

	cfg     config.Config
	session *rpp.Session
	engine  *application.Engine
)

var rootCmd = &cobra.Command{
	Use:   "routecheck-cli",
	Short: "CLI for validating project channel routing",
	Long: `routecheck-cli validates the channel routing of a project's track
hierarchy against the layouts its track groups declare.

It detects capacity problems, misrouted channels, orphaned sends, and
conflicting channel-ordering conventions, and can apply the suggested
fixes directly to the project file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", config.ProjectPath("project.rpp"), "path to the project file")
}

func setup() error {
	var err error
	cfg, err = config.Load(projectPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	session, err = rpp.Load(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	gen, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("loading group manifest: %w", err)
	}

	var opts []application.Option
	if d := cfg.Freshness(); d > 0 {
		opts = append(opts, application.WithFreshness(d))
	}
	engine = application.NewEngine(session, gen, opts...)
	return nil
}
