package application

import (
	"fmt"

	"routecheck/internal/domain"
)

// detectOrphanSends flags every enabled send whose resolved destination
// channel lies beyond the destination track's channel count. One issue per
// offending send, attached to the destination it names.
func detectOrphanSends(g *domain.ProjectGraph) []domain.Issue {
	var issues []domain.Issue
	for srcIdx, node := range g.Nodes {
		for _, s := range node.Sends {
			if !s.Enabled {
				continue
			}
			dest, ok := g.Lookup(s.DestID)
			if !ok {
				// Destination vanished; the next scan will not see this
				// send either.
				continue
			}
			if s.Dest.Channel <= dest.ChannelCount {
				continue
			}
			// Lookup may have resolved the master bus, which the arena map
			// does not hold.
			destIdx, inArena := g.ByID[s.DestID]
			if !inArena {
				destIdx = domain.MasterBusIndex
			}
			issue := domain.Issue{
				Kind:       domain.IssueOrphanSend,
				Severity:   domain.SeverityError,
				TrackIndex: destIdx,
				Description: fmt.Sprintf(
					"send from %q targets channel %d but %q only has %d channel(s)",
					node.Name, s.Dest.Channel, dest.Name, dest.ChannelCount),
				Orphan: &domain.OrphanSendData{
					SourceIndex:  srcIdx,
					SendIndex:    s.Index,
					DestIndex:    destIdx,
					Channel:      s.Dest.Channel,
					DestChannels: dest.ChannelCount,
				},
			}
			attach(g, issue)
			issues = append(issues, issue)
		}
	}
	return issues
}
