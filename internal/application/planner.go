package application

import (
	"fmt"

	"routecheck/internal/domain"
)

// Planner maps issues to concrete fix suggestions. Pure: planning neither
// reads the host nor mutates the graph.
type Planner struct{}

// NewPlanner creates a planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// PlanAll plans one suggestion per issue, skipping issues nothing concrete
// can fix.
func (p *Planner) PlanAll(g *domain.ProjectGraph, issues []domain.Issue) []*domain.FixSuggestion {
	var out []*domain.FixSuggestion
	for i, issue := range issues {
		if s := p.Plan(g, issue, i); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Plan maps one issue to a suggestion, or nil when no concrete action
// exists. seq disambiguates suggestion IDs within one validation run.
func (p *Planner) Plan(g *domain.ProjectGraph, issue domain.Issue, seq int) *domain.FixSuggestion {
	switch issue.Kind {
	case domain.IssueCapacityTooLow, domain.IssueCapacityExcessive:
		return planCapacity(g, issue, seq)
	case domain.IssueMisalignment:
		return planReroute(g, issue, seq)
	case domain.IssueOrphanSend:
		return planOrphan(g, issue, seq)
	case domain.IssueOrderConflict:
		return planOrderChoice(g, issue, seq)
	default:
		return nil
	}
}

func planCapacity(g *domain.ProjectGraph, issue domain.Issue, seq int) *domain.FixSuggestion {
	if issue.Capacity == nil {
		return nil
	}
	verb := "raise"
	id := fmt.Sprintf("cap-low-%d", seq)
	if issue.Kind == domain.IssueCapacityExcessive {
		verb = "reduce"
		id = fmt.Sprintf("cap-high-%d", seq)
	}
	return &domain.FixSuggestion{
		ID:           id,
		Action:       domain.ActionSetChannelCount,
		Issue:        issue,
		TrackIndex:   issue.TrackIndex,
		ChannelCount: issue.Capacity.Required,
		Reason: fmt.Sprintf("%s %s from %d to %d channels to match what its children send",
			verb, domain.TrackLabel(g, issue.TrackIndex), issue.Capacity.Declared, issue.Capacity.Required),
	}
}

// planReroute turns the expected per-label vector into per-send destination
// re-assignments. Labels no explicit send carries cannot be re-pointed, so a
// track routed purely through its main send gets no suggestion.
func planReroute(g *domain.ProjectGraph, issue domain.Issue, seq int) *domain.FixSuggestion {
	if issue.Misalign == nil {
		return nil
	}
	node := g.Node(issue.TrackIndex)
	if node == nil || node.Parent < 0 {
		return nil
	}
	parent := g.Node(node.Parent)

	var routing []domain.RouteTarget
	for _, s := range node.SendsTo(parent.ID) {
		p := s.Source.Channel // first label position this send carries
		if p < 1 || p > len(issue.Misalign.Expected) {
			continue
		}
		routing = append(routing, domain.RouteTarget{
			SendIndex:   s.Index,
			Mode:        s.Dest.Mode,
			DestChannel: issue.Misalign.Expected[p-1].Channel,
		})
	}
	if len(routing) == 0 {
		return nil
	}

	return &domain.FixSuggestion{
		ID:         fmt.Sprintf("align-%d", seq),
		Action:     domain.ActionRerouteTrack,
		Issue:      issue,
		TrackIndex: issue.TrackIndex,
		Routing:    routing,
		Reason: fmt.Sprintf("reroute %s so label %s lands on channel %d per the reference layout",
			domain.TrackLabel(g, issue.TrackIndex), issue.Misalign.Label, expectedFor(issue.Misalign)),
	}
}

func expectedFor(m *domain.Misalignment) int {
	for _, r := range m.Expected {
		if r.Label == m.Label {
			return r.Channel
		}
	}
	return 0
}

func planOrphan(g *domain.ProjectGraph, issue domain.Issue, seq int) *domain.FixSuggestion {
	if issue.Orphan == nil {
		return nil
	}
	required := domain.RoundUpEven(issue.Orphan.Channel)
	return &domain.FixSuggestion{
		ID:           fmt.Sprintf("orphan-%d", seq),
		Action:       domain.ActionIncreaseChannelCount,
		Issue:        issue,
		TrackIndex:   issue.Orphan.DestIndex,
		ChannelCount: required,
		Reason: fmt.Sprintf("raise %s from %d to %d channels so the send from %s has somewhere to land",
			domain.TrackLabel(g, issue.Orphan.DestIndex), issue.Orphan.DestChannels,
			required, domain.TrackLabel(g, issue.Orphan.SourceIndex)),
	}
}

// planOrderChoice builds the one suggestion kind that the applier refuses to
// run without an explicit selection. Both conventions are valid; the planner
// never picks a winner.
func planOrderChoice(g *domain.ProjectGraph, issue domain.Issue, seq int) *domain.FixSuggestion {
	c := issue.Order
	if c == nil {
		return nil
	}
	return &domain.FixSuggestion{
		ID:         fmt.Sprintf("order-%d", seq),
		Action:     domain.ActionSelectChannelOrder,
		Issue:      issue,
		TrackIndex: domain.ProjectWideIndex,
		Reason: fmt.Sprintf("choose one %d-channel ordering convention and rewrite the other side's routing",
			c.ChannelCount),
		RequiresChoice: true,
		Options: []domain.FixOption{
			{
				Label:  fmt.Sprintf("keep %s, rewrite %d %s track(s)", c.OrderA, len(c.TracksB), c.OrderB),
				Order:  c.OrderA,
				Tracks: c.TracksB,
			},
			{
				Label:  fmt.Sprintf("keep %s, rewrite %d %s track(s)", c.OrderB, len(c.TracksA), c.OrderA),
				Order:  c.OrderB,
				Tracks: c.TracksA,
			},
		},
	}
}
