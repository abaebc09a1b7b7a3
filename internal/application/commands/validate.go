package commands

import (
	"context"
	"fmt"

	"routecheck/internal/application"
)

// ValidateResult contains the outcome of one validation run.
type ValidateResult struct {
	Report  *application.Report
	Message string
}

// ValidateCommand runs a full validation cycle against the live project.
type ValidateCommand struct {
	engine *application.Engine
	// Force drops the cached graph first, guaranteeing a fresh scan.
	Force bool
}

// NewValidateCommand creates a new ValidateCommand.
func NewValidateCommand(engine *application.Engine, force bool) *ValidateCommand {
	return &ValidateCommand{engine: engine, Force: force}
}

// Execute runs the validation.
func (c *ValidateCommand) Execute(ctx context.Context) (*ValidateResult, error) {
	if c.Force {
		c.engine.InvalidateCache()
	}

	report, err := c.engine.Validate(ctx)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	msg := "No routing issues found"
	if !report.Clean() {
		errs, warns, _ := report.Counts()
		msg = fmt.Sprintf("%d issue(s): %d error(s), %d warning(s)", len(report.Issues), errs, warns)
	}
	return &ValidateResult{Report: report, Message: msg}, nil
}
