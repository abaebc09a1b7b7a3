package commands

import (
	"context"
	"fmt"

	"routecheck/internal/application"
	"routecheck/internal/domain"
)

// ResolveResult contains the outcome of resolving an order conflict.
type ResolveResult struct {
	Order   domain.ChannelOrder
	Message string
}

// ResolveChoiceCommand applies a requiresChoice suggestion with an explicit
// convention selection.
type ResolveChoiceCommand struct {
	engine       *application.Engine
	report       *application.Report
	SuggestionID string
	Order        domain.ChannelOrder
}

// NewResolveChoiceCommand creates a new ResolveChoiceCommand.
func NewResolveChoiceCommand(engine *application.Engine, report *application.Report, suggestionID string, order domain.ChannelOrder) *ResolveChoiceCommand {
	return &ResolveChoiceCommand{engine: engine, report: report, SuggestionID: suggestionID, Order: order}
}

// Validate checks the suggestion exists and actually takes a choice.
func (c *ResolveChoiceCommand) Validate() error {
	if c.report == nil {
		return fmt.Errorf("no validation report; run validate first")
	}
	s, ok := c.report.SuggestionByID(c.SuggestionID)
	if !ok {
		return fmt.Errorf("no suggestion %q in the current report", c.SuggestionID)
	}
	if !s.RequiresChoice {
		return fmt.Errorf("suggestion %q does not take a choice", c.SuggestionID)
	}
	if _, ok := s.OptionByOrder(c.Order); !ok {
		return fmt.Errorf("suggestion %q has no %s option", c.SuggestionID, c.Order)
	}
	return nil
}

// Execute resolves the conflict with the selected convention.
func (c *ResolveChoiceCommand) Execute(ctx context.Context) (*ResolveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s, _ := c.report.SuggestionByID(c.SuggestionID)
	opt, _ := s.OptionByOrder(c.Order)

	if err := c.engine.ResolveChoice(ctx, s, opt); err != nil {
		return nil, err
	}
	return &ResolveResult{
		Order:   c.Order,
		Message: fmt.Sprintf("adopted %s ordering, rewrote %d track(s)", c.Order, len(opt.Tracks)),
	}, nil
}
