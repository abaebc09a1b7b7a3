package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"routecheck/internal/domain"
)

// RegisterReadTools adds all read-only routing tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, svc *Service) {
	s.AddTool(validateTool(), validateHandler(svc))
	s.AddTool(treeTool(), treeHandler(svc))
	s.AddTool(issueDetailTool(), issueDetailHandler(svc))
}

// --- validate ---

func validateTool() mcp.Tool {
	return mcp.NewTool("validate",
		mcp.WithDescription("Validate the project's channel routing. Returns detected issues and suggested fixes with their IDs."),
		mcp.WithBoolean("force",
			mcp.Description("Drop the cached scan and re-read the project file"),
		),
	)
}

func validateHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		force := req.GetBool("force", false)

		svc.mu.Lock()
		defer svc.mu.Unlock()

		if force {
			svc.engine.InvalidateCache()
		}
		report, err := svc.engine.Validate(ctx)
		if err != nil {
			return toolError(err)
		}
		svc.report = report

		return mcp.NewToolResultText(domain.RenderReport(report.Graph, report.Issues, report.Suggestions)), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the project's track hierarchy with channel counts and per-track issue counts."),
	)
}

func treeHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		svc.mu.Lock()
		defer svc.mu.Unlock()

		report, err := svc.engine.Validate(ctx)
		if err != nil {
			return toolError(err)
		}
		svc.report = report

		var sb strings.Builder
		g := report.Graph
		if g.MasterBus != nil {
			fmt.Fprintf(&sb, "Master (%dch)%s\n", g.MasterBus.ChannelCount, issueSuffix(g.MasterBus.Issues))
		}
		for _, i := range g.TopLevel {
			renderTree(&sb, g, i, "")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, g *domain.ProjectGraph, idx int, prefix string) {
	n := g.Node(idx)
	if n == nil {
		return
	}
	marker := ""
	if n.IsManaged {
		marker = " *"
	}
	fmt.Fprintf(sb, "%s%s (%dch)%s%s\n", prefix, n.Name, n.ChannelCount, marker, issueSuffix(n.Issues))
	for _, child := range n.Children {
		renderTree(sb, g, child, prefix+"  ")
	}
}

func issueSuffix(issues []domain.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	return fmt.Sprintf("  [%d issue(s)]", len(issues))
}

// --- issue_detail ---

func issueDetailTool() mcp.Tool {
	return mcp.NewTool("issue_detail",
		mcp.WithDescription("Show the full payload of one issue from the last validation, by its 1-based position in the report."),
		mcp.WithNumber("number",
			mcp.Description("Issue number as shown by validate (starting at 1)"),
			mcp.Required(),
		),
	)
}

func issueDetailHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number := req.GetInt("number", 0)

		svc.mu.Lock()
		defer svc.mu.Unlock()

		if svc.report == nil {
			return toolError(fmt.Errorf("no validation yet; call validate first"))
		}
		if number < 1 || number > len(svc.report.Issues) {
			return toolError(fmt.Errorf("issue number %d out of range (report has %d)", number, len(svc.report.Issues)))
		}

		issue := svc.report.Issues[number-1]
		g := svc.report.Graph

		var sb strings.Builder
		fmt.Fprintf(&sb, "[%s] %s\n", issue.Severity, issue.Kind)
		fmt.Fprintf(&sb, "track: %s\n", domain.TrackLabel(g, issue.TrackIndex))
		fmt.Fprintf(&sb, "%s\n", issue.Description)

		switch {
		case issue.Capacity != nil:
			fmt.Fprintf(&sb, "declared: %d channels, required: %d\n", issue.Capacity.Declared, issue.Capacity.Required)
		case issue.Order != nil:
			c := issue.Order
			fmt.Fprintf(&sb, "%d-channel tracks disagree on ordering:\n", c.ChannelCount)
			fmt.Fprintf(&sb, "  %s: %s\n", c.OrderA, trackNames(g, c.TracksA))
			fmt.Fprintf(&sb, "  %s: %s\n", c.OrderB, trackNames(g, c.TracksB))
		case issue.Misalign != nil:
			m := issue.Misalign
			fmt.Fprintf(&sb, "label %s routed to channel %d\n", m.Label, m.Actual)
			sb.WriteString("expected routing:\n")
			for _, r := range m.Expected {
				fmt.Fprintf(&sb, "  %s -> %d\n", r.Label, r.Channel)
			}
		case issue.Orphan != nil:
			o := issue.Orphan
			fmt.Fprintf(&sb, "send %d on %s targets channel %d, but %s has only %d\n",
				o.SendIndex, domain.TrackLabel(g, o.SourceIndex), o.Channel,
				domain.TrackLabel(g, o.DestIndex), o.DestChannels)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func trackNames(g *domain.ProjectGraph, indices []int) string {
	names := make([]string, 0, len(indices))
	for _, i := range indices {
		names = append(names, domain.TrackLabel(g, i))
	}
	return strings.Join(names, ", ")
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
