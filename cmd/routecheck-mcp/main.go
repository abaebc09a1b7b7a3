package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"routecheck/internal/adapters/manifest"
	mcpadapter "routecheck/internal/adapters/mcp"
	"routecheck/internal/adapters/rpp"
	"routecheck/internal/application"
	"routecheck/internal/config"
)

func main() {
	projectFlag := flag.String("project", config.ProjectPath("project.rpp"), "path to the project file")
	flag.Parse()

	cfg, err := config.Load(*projectFlag)
	if err != nil {
		log.Fatalf("routecheck-mcp: %v", err)
	}

	session, err := rpp.Load(*projectFlag)
	if err != nil {
		log.Fatalf("routecheck-mcp: %v", err)
	}
	gen, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		log.Fatalf("routecheck-mcp: %v", err)
	}

	var opts []application.Option
	if d := cfg.Freshness(); d > 0 {
		opts = append(opts, application.WithFreshness(d))
	}
	engine := application.NewEngine(session, gen, opts...)
	svc := mcpadapter.NewService(engine)

	mcpServer := server.NewMCPServer(
		"routecheck-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, svc)
	mcpadapter.RegisterWriteTools(mcpServer, svc)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("routecheck-mcp: %v", err)
	}
}
