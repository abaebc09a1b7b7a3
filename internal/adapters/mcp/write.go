package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"routecheck/internal/application"
	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

// RegisterWriteTools adds all project-mutating routing tools to the MCP
// server.
func RegisterWriteTools(s *server.MCPServer, svc *Service) {
	s.AddTool(applyFixTool(), applyFixHandler(svc))
	s.AddTool(applyAllTool(), applyAllHandler(svc))
	s.AddTool(resolveChoiceTool(), resolveChoiceHandler(svc))
}

// --- apply_fix ---

func applyFixTool() mcp.Tool {
	return mcp.NewTool("apply_fix",
		mcp.WithDescription("Apply one suggested fix from the last validation by its suggestion ID. Fixes that require a convention choice are rejected; use resolve_choice for those."),
		mcp.WithString("suggestion_id",
			mcp.Description("Suggestion ID from validate (e.g. cap-low-3)"),
			mcp.Required(),
		),
	)
}

func applyFixHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("suggestion_id", "")
		if id == "" {
			return toolError(fmt.Errorf("suggestion_id is required"))
		}

		svc.mu.Lock()
		defer svc.mu.Unlock()

		cmd := commands.NewApplyCommand(svc.engine, svc.report, id, false)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		// The old report's suggestions are now stale.
		svc.report = nil

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- apply_all ---

func applyAllTool() mcp.Tool {
	return mcp.NewTool("apply_all",
		mcp.WithDescription("Apply every suggested fix from the last validation that does not require a convention choice, as one batch."),
	)
}

func applyAllHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		svc.mu.Lock()
		defer svc.mu.Unlock()

		cmd := commands.NewApplyCommand(svc.engine, svc.report, "", true)
		result, err := cmd.Execute(ctx)
		if err != nil && !errors.Is(err, application.ErrPartialApply) {
			return toolError(err)
		}
		// A partial batch still mutated the project; the old suggestion IDs
		// are stale either way.
		if len(result.Applied) > 0 || len(result.Failed) > 0 {
			svc.report = nil
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		for _, f := range result.Failed {
			fmt.Fprintf(&sb, "\n  failed %s: %s", f.SuggestionID, f.Reason)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- resolve_choice ---

func resolveChoiceTool() mcp.Tool {
	return mcp.NewTool("resolve_choice",
		mcp.WithDescription("Resolve an ordering-convention conflict by picking one convention. Rewrites the routing of every track declared under the losing convention."),
		mcp.WithString("suggestion_id",
			mcp.Description("Suggestion ID of the conflict fix (e.g. order-1)"),
			mcp.Required(),
		),
		mcp.WithString("order",
			mcp.Description("Convention to adopt: smpte or film"),
			mcp.Required(),
		),
	)
}

func resolveChoiceHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("suggestion_id", "")
		orderStr := req.GetString("order", "")
		if id == "" || orderStr == "" {
			return toolError(fmt.Errorf("suggestion_id and order are required"))
		}

		order, err := domain.ParseChannelOrder(orderStr)
		if err != nil {
			return toolError(err)
		}

		svc.mu.Lock()
		defer svc.mu.Unlock()

		cmd := commands.NewResolveChoiceCommand(svc.engine, svc.report, id, order)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		svc.report = nil

		return mcp.NewToolResultText(result.Message), nil
	}
}
