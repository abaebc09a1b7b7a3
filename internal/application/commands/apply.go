package commands

import (
	"context"
	"fmt"

	"routecheck/internal/application"
	"routecheck/internal/domain"
)

// ApplyResult contains the outcome of applying fixes.
type ApplyResult struct {
	Applied []string
	Failed  []*application.ApplyError
	Message string
}

// ApplyCommand applies one suggestion by ID, or every applicable suggestion
// from a report as a single batch.
type ApplyCommand struct {
	engine       *application.Engine
	report       *application.Report
	SuggestionID string
	All          bool
}

// NewApplyCommand creates a new ApplyCommand. Exactly one of suggestionID or
// all should be set.
func NewApplyCommand(engine *application.Engine, report *application.Report, suggestionID string, all bool) *ApplyCommand {
	return &ApplyCommand{engine: engine, report: report, SuggestionID: suggestionID, All: all}
}

// Validate checks that the command identifies something to apply.
func (c *ApplyCommand) Validate() error {
	if c.report == nil {
		return fmt.Errorf("no validation report; run validate first")
	}
	if c.All == (c.SuggestionID != "") {
		return fmt.Errorf("specify either a suggestion ID or all, not both")
	}
	if c.SuggestionID != "" {
		if _, ok := c.report.SuggestionByID(c.SuggestionID); !ok {
			return fmt.Errorf("no suggestion %q in the current report", c.SuggestionID)
		}
	}
	return nil
}

// Execute applies the selected fixes.
func (c *ApplyCommand) Execute(ctx context.Context) (*ApplyResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.All {
		applicable := Applicable(c.report)
		if len(applicable) == 0 {
			return &ApplyResult{Message: "no applicable fixes; conflicts need an explicit choice"}, nil
		}
		batch, err := c.engine.ApplyAll(ctx, applicable)
		if err != nil && err != application.ErrPartialApply {
			return nil, err
		}
		result := &ApplyResult{Applied: batch.Applied, Failed: batch.Failed}
		result.Message = fmt.Sprintf("applied %d fix(es)", len(batch.Applied))
		if len(batch.Failed) > 0 {
			result.Message = fmt.Sprintf("applied %d fix(es), %d failed", len(batch.Applied), len(batch.Failed))
		}
		return result, err
	}

	s, _ := c.report.SuggestionByID(c.SuggestionID)
	if err := c.engine.ApplyOne(ctx, s); err != nil {
		return nil, err
	}
	return &ApplyResult{
		Applied: []string{s.ID},
		Message: fmt.Sprintf("applied %s: %s", s.ID, s.Reason),
	}, nil
}

// Applicable filters a report's suggestions down to the ones a batch apply
// may touch (everything that does not require a choice).
func Applicable(report *application.Report) []*domain.FixSuggestion {
	var out []*domain.FixSuggestion
	for _, s := range report.Suggestions {
		if !s.RequiresChoice {
			out = append(out, s)
		}
	}
	return out
}
