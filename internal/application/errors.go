package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for contract violations and common conditions. Detection
// never produces errors: an inconsistent graph is expected input and comes
// back as Issue values.
var (
	// ErrChoiceRequired is returned when ApplyOne is called on a suggestion
	// that requires an explicit convention choice. Fails closed: nothing is
	// mutated.
	ErrChoiceRequired = errors.New("suggestion requires an explicit choice")

	// ErrUnknownOption is returned when ResolveChoice is called with an
	// option that is not among the suggestion's own options.
	ErrUnknownOption = errors.New("option does not belong to suggestion")

	// ErrNotChoice is returned when ResolveChoice is called on a suggestion
	// that does not take a choice.
	ErrNotChoice = errors.New("suggestion does not take a choice")

	// ErrNilSuggestion is returned when an apply entry point receives nil.
	ErrNilSuggestion = errors.New("nil suggestion")

	// ErrPartialApply is reported by ApplyAll when at least one suggestion
	// failed; the rest were still attempted.
	ErrPartialApply = errors.New("some fixes failed")

	// ErrStaleSuggestion is returned when a suggestion outlived the graph it
	// was planned on. Suggestions dangle after any apply call; validate
	// again and re-plan.
	ErrStaleSuggestion = errors.New("suggestion is stale, validate again")
)

// ApplyError is an application-time failure: the host refused a mutation or
// a referenced track no longer exists. It carries the suggestion's reason so
// a log line is enough to see what was being attempted.
type ApplyError struct {
	SuggestionID string
	Reason       string
	Err          error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("fix %s (%s): %v", e.SuggestionID, e.Reason, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
