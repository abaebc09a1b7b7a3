package domain

import (
	"fmt"
	"strings"
	"time"
)

// RenderReport formats a validation result as plain text, suitable for the
// clipboard or a ticket. Track references are resolved against the graph the
// issues were detected on.
func RenderReport(g *ProjectGraph, issues []Issue, suggestions []*FixSuggestion) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Routing validation - %s\n", time.Now().Format("2006/01/02 15:04"))
	fmt.Fprintf(&sb, "%d tracks scanned, %d issue(s)\n\n", len(g.Nodes), len(issues))

	if len(issues) == 0 {
		sb.WriteString("No routing issues found.\n")
		return sb.String()
	}

	byID := make(map[string]*FixSuggestion, len(suggestions))
	for _, s := range suggestions {
		byID[s.ID] = s
	}

	for i, issue := range issues {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, issue.Severity, issue.Kind)
		fmt.Fprintf(&sb, "   track: %s\n", TrackLabel(g, issue.TrackIndex))
		fmt.Fprintf(&sb, "   %s\n", issue.Description)
	}

	if len(suggestions) > 0 {
		sb.WriteString("\nSuggested fixes:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "- %s: %s", s.ID, s.Reason)
			if s.RequiresChoice {
				sb.WriteString(" (requires a convention choice)")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// TrackLabel names the track behind an issue or suggestion index for
// display.
func TrackLabel(g *ProjectGraph, index int) string {
	switch index {
	case ProjectWideIndex:
		return "(project)"
	case MasterBusIndex:
		return "Master"
	}
	n := g.Node(index)
	if n == nil {
		return fmt.Sprintf("(track %d)", index)
	}
	if n.Name == "" {
		return fmt.Sprintf("track #%d", n.ID)
	}
	return n.Name
}
