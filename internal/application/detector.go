package application

import "routecheck/internal/domain"

// Detector runs the detection passes over a scanned graph. Detection is
// read-only apart from attaching the found issues to their nodes; it never
// mutates routing state.
type Detector struct{}

// NewDetector creates a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs the four passes in fixed order and returns every issue found.
//
// The order-conflict pass short-circuits the rest: while two subtrees
// disagree on a channel-ordering convention, any capacity or alignment math
// is meaningless, so that single conflict is the whole result. This is a
// deliberate early exit.
func (d *Detector) Detect(g *domain.ProjectGraph) []domain.Issue {
	if issue, found := detectOrderConflict(g); found {
		return []domain.Issue{issue}
	}

	issues := detectCapacity(g)
	issues = append(issues, detectMisalignment(g)...)
	issues = append(issues, detectOrphanSends(g)...)
	return issues
}

// attach records an issue on the node it concerns, when it concerns one.
func attach(g *domain.ProjectGraph, issue domain.Issue) {
	switch issue.TrackIndex {
	case domain.ProjectWideIndex:
	case domain.MasterBusIndex:
		if g.MasterBus != nil {
			g.MasterBus.Issues = append(g.MasterBus.Issues, issue)
		}
	default:
		if n := g.Node(issue.TrackIndex); n != nil {
			n.Issues = append(n.Issues, issue)
		}
	}
}
