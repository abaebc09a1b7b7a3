package views

import (
	"routecheck/internal/application"
	"routecheck/internal/domain"
)

// Messages shared between views and the app model.

// SwitchToChoiceMsg asks the app to open the order-choice view for a
// requiresChoice suggestion.
type SwitchToChoiceMsg struct {
	Suggestion *domain.FixSuggestion
	Report     *application.Report
}

// SwitchToHelpMsg asks the app to show the help view.
type SwitchToHelpMsg struct{}

// SwitchToIssuesMsg returns to the issue list, revalidating when Reload is
// set.
type SwitchToIssuesMsg struct {
	Reload bool
}

// OpenEditorMsg asks the app to open the project file in an editor.
type OpenEditorMsg struct{}

type reportMsg struct {
	report *application.Report
}

type appliedMsg struct {
	message string
}

type errMsg struct {
	err error
}
