package application

import (
	"context"
	"fmt"

	"routecheck/internal/domain"
)

// ApplyResult aggregates one ApplyAll batch: which suggestions took and
// which failed. Failures do not abort the batch; the aggregate is a failure
// when any one is.
type ApplyResult struct {
	Applied []string // suggestion IDs, in apply order
	Failed  []*ApplyError
}

// ApplyOne executes a single suggestion inside one host undo block, then
// invalidates the cached graph so the next Validate re-scans.
//
// Suggestions with RequiresChoice set fail closed with ErrChoiceRequired and
// no mutation: the caller must go through ResolveChoice.
func (e *Engine) ApplyOne(ctx context.Context, s *domain.FixSuggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return ErrNilSuggestion
	}
	if s.RequiresChoice {
		return ErrChoiceRequired
	}
	if e.cached == nil {
		return ErrStaleSuggestion
	}

	e.phase = PhaseApplying
	if err := e.host.Begin(s.Reason); err != nil {
		e.phase = PhaseStale
		return &ApplyError{SuggestionID: s.ID, Reason: s.Reason, Err: err}
	}

	err := e.applyFix(s)
	if err != nil {
		e.host.Rollback()
	} else if cerr := e.host.Commit(); cerr != nil {
		err = &ApplyError{SuggestionID: s.ID, Reason: s.Reason, Err: cerr}
	}

	e.InvalidateCache()
	return err
}

// ApplyAll executes every suggestion in list order inside one host undo
// block. A failed suggestion is recorded and the rest are still attempted;
// partial rollback beyond the host's own transaction boundary is not
// attempted. Returns ErrPartialApply when anything failed.
func (e *Engine) ApplyAll(ctx context.Context, suggestions []*domain.FixSuggestion) (*ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := &ApplyResult{}
	if len(suggestions) == 0 {
		return result, nil
	}
	if e.cached == nil {
		return result, ErrStaleSuggestion
	}

	e.phase = PhaseApplying
	if err := e.host.Begin(fmt.Sprintf("Fix %d routing issue(s)", len(suggestions))); err != nil {
		e.phase = PhaseStale
		return result, err
	}

	for _, s := range suggestions {
		switch {
		case s == nil:
			result.Failed = append(result.Failed, &ApplyError{Err: ErrNilSuggestion})
		case s.RequiresChoice:
			// Never auto-applied. Recorded as a failure, no mutation.
			result.Failed = append(result.Failed, &ApplyError{
				SuggestionID: s.ID, Reason: s.Reason, Err: ErrChoiceRequired,
			})
		default:
			if err := e.applyFix(s); err != nil {
				result.Failed = append(result.Failed, asApplyError(s, err))
			} else {
				result.Applied = append(result.Applied, s.ID)
			}
		}
	}

	err := e.host.Commit()
	e.InvalidateCache()
	if err != nil {
		return result, err
	}
	if len(result.Failed) > 0 {
		return result, ErrPartialApply
	}
	return result, nil
}

// ResolveChoice applies a requiresChoice suggestion with an explicit
// selection. The option must be one of the suggestion's own; anything else
// fails closed with no mutation.
func (e *Engine) ResolveChoice(ctx context.Context, s *domain.FixSuggestion, opt *domain.FixOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return ErrNilSuggestion
	}
	if !s.RequiresChoice {
		return ErrNotChoice
	}
	if !s.HasOption(opt) {
		return ErrUnknownOption
	}
	if e.cached == nil {
		return ErrStaleSuggestion
	}

	e.phase = PhaseChoosing
	g := e.cached.Graph

	e.phase = PhaseApplying
	if err := e.host.Begin(fmt.Sprintf("Adopt %s channel ordering", opt.Order)); err != nil {
		e.phase = PhaseStale
		return &ApplyError{SuggestionID: s.ID, Reason: s.Reason, Err: err}
	}

	err := e.applyOrderChoice(g, opt)
	if err != nil {
		e.host.Rollback()
	} else if cerr := e.host.Commit(); cerr != nil {
		err = &ApplyError{SuggestionID: s.ID, Reason: s.Reason, Err: cerr}
	}

	e.InvalidateCache()
	return err
}

// applyFix performs the mutation for one non-choice suggestion. Callers own
// the transaction.
func (e *Engine) applyFix(s *domain.FixSuggestion) error {
	g := e.cached.Graph

	switch s.Action {
	case domain.ActionSetChannelCount, domain.ActionIncreaseChannelCount:
		if s.TrackIndex == domain.MasterBusIndex {
			if err := e.host.SetMasterChannelCount(s.ChannelCount); err != nil {
				return asApplyError(s, err)
			}
			return nil
		}
		node := g.Node(s.TrackIndex)
		if node == nil {
			return asApplyError(s, fmt.Errorf("track index %d not in graph", s.TrackIndex))
		}
		if err := e.host.SetChannelCount(node.ID, s.ChannelCount); err != nil {
			return asApplyError(s, err)
		}
		return nil

	case domain.ActionRerouteTrack:
		node := g.Node(s.TrackIndex)
		if node == nil {
			return asApplyError(s, fmt.Errorf("track index %d not in graph", s.TrackIndex))
		}
		// One atomic change: every send endpoint moves, or the host
		// transaction unwinds them together.
		for _, rt := range s.Routing {
			spec := domain.ChannelSpec{Mode: rt.Mode, Channel: rt.DestChannel}
			if err := e.host.SetSendDestChannel(node.ID, rt.SendIndex, spec.Raw()); err != nil {
				return asApplyError(s, err)
			}
		}
		return nil

	case domain.ActionSelectChannelOrder:
		return ErrChoiceRequired

	default:
		return asApplyError(s, fmt.Errorf("unknown action %v", s.Action))
	}
}

// applyOrderChoice rewrites every track on the losing side of a convention
// conflict: its routing moves to where the chosen convention puts each
// label, and the chosen convention is recorded on the track so the next scan
// sees agreement.
func (e *Engine) applyOrderChoice(g *domain.ProjectGraph, opt *domain.FixOption) error {
	for _, idx := range opt.Tracks {
		node := g.Node(idx)
		if node == nil || node.Declared == nil {
			continue
		}
		chosen, ok := domain.StandardLayout(node.Declared.ChannelCount, opt.Order)
		if !ok {
			continue
		}

		if node.Parent >= 0 {
			parent := g.Node(node.Parent)
			for _, snd := range node.SendsTo(parent.ID) {
				label := node.Declared.LabelFor(snd.Source.Channel)
				target, ok := chosen.ChannelFor(label)
				if !ok {
					continue
				}
				spec := snd.Dest.WithChannel(target)
				if err := e.host.SetSendDestChannel(node.ID, snd.Index, spec.Raw()); err != nil {
					return &ApplyError{Reason: "rewrite routing for " + node.Name, Err: err}
				}
			}
		}

		if err := e.host.SetChannelOrder(node.ID, opt.Order); err != nil {
			return &ApplyError{Reason: "record ordering on " + node.Name, Err: err}
		}
	}
	return nil
}

func asApplyError(s *domain.FixSuggestion, err error) *ApplyError {
	if ae, ok := err.(*ApplyError); ok {
		return ae
	}
	return &ApplyError{SuggestionID: s.ID, Reason: s.Reason, Err: err}
}
