package application

import (
	"fmt"

	"routecheck/internal/domain"
)

// detectMisalignment infers a reference layout from the widest declared
// managed track, then flags every other managed track whose actual routing
// disagrees with the per-label channels that reference implies. One issue
// per track, on the first mismatched label, carrying the full expected
// vector so the fix is a single change.
func detectMisalignment(g *domain.ProjectGraph) []domain.Issue {
	refIdx, ok := referenceLayout(g)
	if !ok {
		return nil
	}
	ref := g.Node(refIdx).Declared

	refTable := make(map[string]int, len(ref.Labels))
	for i, label := range ref.Labels {
		refTable[label] = i + 1
	}

	var issues []domain.Issue
	for _, idx := range g.Managed {
		if idx == refIdx {
			continue
		}
		node := g.Node(idx)
		if node.Declared == nil {
			continue
		}

		expected := expectedRouting(node.Declared, refTable)
		for p := range expected {
			actual := actualChannel(g, node, p+1)
			if actual == expected[p].Channel {
				continue
			}
			issue := domain.Issue{
				Kind:       domain.IssueMisalignment,
				Severity:   domain.SeverityError,
				TrackIndex: idx,
				Description: fmt.Sprintf(
					"label %s routes to channel %d, reference layout expects %d",
					expected[p].Label, actual, expected[p].Channel),
				Misalign: &domain.Misalignment{
					Label:    expected[p].Label,
					Actual:   actual,
					Expected: expected,
				},
			}
			attach(g, issue)
			issues = append(issues, issue)
			break
		}
	}
	return issues
}

// referenceLayout picks the managed track whose declared layout needs the
// most channels; ties go to the first one encountered.
func referenceLayout(g *domain.ProjectGraph) (int, bool) {
	best := -1
	width := 0
	for _, idx := range g.Managed {
		decl := g.Node(idx).Declared
		if decl == nil {
			continue
		}
		if decl.ChannelCount > width {
			best = idx
			width = decl.ChannelCount
		}
	}
	return best, best >= 0
}

// expectedRouting resolves each declared label to the channel the reference
// layout puts it on, falling back to the standard table for the track's own
// width, then to the label's positional index. The positional fallback is
// unverified for unusual widths but preserved: a plausible guess beats no
// suggestion.
func expectedRouting(decl *domain.ChannelLayout, refTable map[string]int) []domain.LabelRoute {
	expected := make([]domain.LabelRoute, len(decl.Labels))
	std, hasStd := domain.StandardLayout(decl.ChannelCount, decl.Order)
	for p, label := range decl.Labels {
		ch, ok := refTable[label]
		if !ok && hasStd {
			ch, ok = std.ChannelFor(label)
		}
		if !ok {
			ch = p + 1
		}
		expected[p] = domain.LabelRoute{Label: label, Channel: ch}
	}
	return expected
}

// actualChannel resolves where source channel p of a track really lands on
// its parent: through an explicit send when one covers p, otherwise
// passthrough via the main send (identity).
func actualChannel(g *domain.ProjectGraph, node *domain.TrackNode, p int) int {
	if node.Parent < 0 {
		return p
	}
	parent := g.Node(node.Parent)
	for _, s := range node.SendsTo(parent.ID) {
		lo := s.Source.Channel
		if p >= lo && p < lo+s.Source.Width() {
			return s.Dest.Channel + (p - lo)
		}
	}
	return p
}
