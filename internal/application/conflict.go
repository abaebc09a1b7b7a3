package application

import (
	"fmt"

	"routecheck/internal/domain"
)

// detectOrderConflict looks for two managed tracks that declare the same
// ambiguous channel count under different ordering conventions. The first
// disagreement wins; found is false when every ambiguous format agrees.
func detectOrderConflict(g *domain.ProjectGraph) (domain.Issue, bool) {
	type group struct {
		order   domain.ChannelOrder
		tracks  []int
		others  []int
		otherOf domain.ChannelOrder
	}

	groups := make(map[int]*group)
	var counts []int // channel counts in encounter order

	for _, idx := range g.Managed {
		node := g.Node(idx)
		decl := node.Declared
		if decl == nil || !domain.OrderAmbiguous(decl.ChannelCount) || decl.Order == domain.OrderUnknown {
			continue
		}

		grp, ok := groups[decl.ChannelCount]
		if !ok {
			grp = &group{order: decl.Order}
			groups[decl.ChannelCount] = grp
			counts = append(counts, decl.ChannelCount)
		}

		if decl.Order == grp.order {
			grp.tracks = append(grp.tracks, idx)
		} else {
			grp.otherOf = decl.Order
			grp.others = append(grp.others, idx)
		}
	}

	for _, count := range counts {
		grp := groups[count]
		if len(grp.others) == 0 {
			continue
		}
		issue := domain.Issue{
			Kind:       domain.IssueOrderConflict,
			Severity:   domain.SeverityError,
			TrackIndex: domain.ProjectWideIndex,
			Description: fmt.Sprintf(
				"%d-channel tracks disagree on channel ordering: %d track(s) use %s, %d use %s",
				count, len(grp.tracks), grp.order, len(grp.others), grp.otherOf),
			Order: &domain.OrderConflict{
				ChannelCount: count,
				OrderA:       grp.order,
				OrderB:       grp.otherOf,
				TracksA:      grp.tracks,
				TracksB:      grp.others,
			},
		}
		return issue, true
	}

	return domain.Issue{}, false
}
