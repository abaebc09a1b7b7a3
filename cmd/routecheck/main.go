package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/adapters/editor"
	"routecheck/internal/adapters/manifest"
	"routecheck/internal/adapters/rpp"
	"routecheck/internal/adapters/tui"
	"routecheck/internal/application"
	"routecheck/internal/config"
)

func main() {
	projectFlag := flag.String("project", config.ProjectPath("project.rpp"), "path to the project file")
	flag.Parse()

	cfg, err := config.Load(*projectFlag)
	if err != nil {
		fatal(err)
	}

	session, err := rpp.Load(*projectFlag)
	if err != nil {
		fatal(err)
	}
	gen, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		fatal(err)
	}

	var opts []application.Option
	if d := cfg.Freshness(); d > 0 {
		opts = append(opts, application.WithFreshness(d))
	}
	engine := application.NewEngine(session, gen, opts...)
	editorOpener := editor.NewOpener()

	app := tui.NewApp(engine, editorOpener, *projectFlag)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
