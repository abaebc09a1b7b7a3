package application

import (
	"fmt"
	"sort"

	"routecheck/internal/domain"
)

// detectCapacity checks every folder track against what its children
// actually send into it, deepest folders first so a fix applied bottom-up
// converges. The master bus is checked last against the widest track in the
// project.
func detectCapacity(g *domain.ProjectGraph) []domain.Issue {
	var folders []int
	for i, n := range g.Nodes {
		if n.IsFolder() {
			folders = append(folders, i)
		}
	}
	sort.SliceStable(folders, func(a, b int) bool {
		return g.Depth(folders[a]) > g.Depth(folders[b])
	})

	var issues []domain.Issue
	for _, fi := range folders {
		node := g.Node(fi)
		required := domain.RoundUpEven(requiredChannels(g, node))
		if issue, found := capacityIssue(fi, node.ChannelCount, required); found {
			attach(g, issue)
			issues = append(issues, issue)
		}
	}

	if g.MasterBus != nil && len(g.Nodes) > 0 {
		required := domain.RoundUpEven(g.MaxChannelCount())
		if issue, found := capacityIssue(domain.MasterBusIndex, g.MasterBus.ChannelCount, required); found {
			attach(g, issue)
			issues = append(issues, issue)
		}
	}

	return issues
}

// requiredChannels computes the raw (pre-rounding) capacity a folder needs:
// the widest child that forwards its main output into it, or the highest
// destination channel any child send references on it, whichever is larger.
func requiredChannels(g *domain.ProjectGraph, node *domain.TrackNode) int {
	required := 0
	for _, ci := range node.Children {
		child := g.Node(ci)
		if child.ForwardsToMain && child.ChannelCount > required {
			required = child.ChannelCount
		}
		for _, s := range child.Sends {
			if !s.Enabled || s.DestID != node.ID {
				continue
			}
			if s.Dest.Channel > required {
				required = s.Dest.Channel
			}
		}
	}
	return required
}

func capacityIssue(trackIndex, declared, required int) (domain.Issue, bool) {
	switch {
	case required > declared:
		return domain.Issue{
			Kind:       domain.IssueCapacityTooLow,
			Severity:   domain.SeverityError,
			TrackIndex: trackIndex,
			Description: fmt.Sprintf(
				"channel count %d is too low: children route into %d channel(s)",
				declared, required),
			Capacity: &domain.CapacityConflict{Declared: declared, Required: required},
		}, true
	case required < declared:
		// Wasteful, not wrong: the bus carries channels nothing feeds.
		return domain.Issue{
			Kind:       domain.IssueCapacityExcessive,
			Severity:   domain.SeverityWarning,
			TrackIndex: trackIndex,
			Description: fmt.Sprintf(
				"channel count %d exceeds the %d channel(s) children actually use",
				declared, required),
			Capacity: &domain.CapacityConflict{Declared: declared, Required: required},
		}, true
	default:
		return domain.Issue{}, false
	}
}
