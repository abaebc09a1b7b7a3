package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/adapters/tui/styles"
	"routecheck/internal/application"
	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

// ChoiceKeyMap defines key bindings for the convention-choice view
type ChoiceKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var ChoiceKeys = ChoiceKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "adopt"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// ChoiceModel presents the two ordering conventions of an order conflict
// and applies the selected one. Neither side is pre-selected as a default
// on purpose: the engine refuses to pick a winner, and so does the UI.
type ChoiceModel struct {
	engine *application.Engine

	report     *application.Report
	suggestion *domain.FixSuggestion
	cursor     int
	width      int
	height     int
	message    string
	busy       bool
}

// NewChoiceModel creates a new choice view.
func NewChoiceModel(engine *application.Engine) *ChoiceModel {
	return &ChoiceModel{engine: engine}
}

// SetConflict points the view at a requiresChoice suggestion.
func (m *ChoiceModel) SetConflict(report *application.Report, s *domain.FixSuggestion) {
	m.report = report
	m.suggestion = s
	m.cursor = 0
	m.message = ""
	m.busy = false
}

// SetSize updates the view dimensions.
func (m *ChoiceModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *ChoiceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the choice view.
func (m *ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if em, ok := msg.(errMsg); ok {
		m.busy = false
		m.message = em.err.Error()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.busy {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, ChoiceKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, ChoiceKeys.Down):
		if m.suggestion != nil && m.cursor < len(m.suggestion.Options)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, ChoiceKeys.Select):
		if m.suggestion == nil || m.cursor >= len(m.suggestion.Options) {
			return m, nil
		}
		opt := m.suggestion.Options[m.cursor]
		return m, m.resolve(opt.Order)

	case key.Matches(keyMsg, ChoiceKeys.Cancel):
		return m, func() tea.Msg { return SwitchToIssuesMsg{} }
	}
	return m, nil
}

func (m *ChoiceModel) resolve(order domain.ChannelOrder) tea.Cmd {
	m.busy = true
	report, id := m.report, m.suggestion.ID
	return func() tea.Msg {
		cmd := commands.NewResolveChoiceCommand(m.engine, report, id, order)
		if _, err := cmd.Execute(context.Background()); err != nil {
			return errMsg{err}
		}
		return SwitchToIssuesMsg{Reload: true}
	}
}

// View renders the choice view.
func (m *ChoiceModel) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Channel ordering conflict"))
	sb.WriteString("\n")

	if m.suggestion == nil {
		sb.WriteString(styles.MutedText.Render("nothing to choose"))
		return styles.App.Render(sb.String())
	}

	sb.WriteString(m.suggestion.Issue.Description)
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Both conventions are valid. Pick the one this project should use:"))
	sb.WriteString("\n\n")

	for i, opt := range m.suggestion.Options {
		line := fmt.Sprintf("%s - affects %d track(s)", opt.Label, len(opt.Tracks))
		if i == m.cursor {
			line = styles.RowSelected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		for _, idx := range opt.Tracks {
			sb.WriteString(styles.MutedText.Render("    · " + domain.TrackLabel(m.report.Graph, idx)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if m.message != "" {
		sb.WriteString(styles.ErrorMsg.Render(m.message))
		sb.WriteString("\n")
	}
	sb.WriteString(styles.StatusBar.Render("enter adopt · esc back"))
	return styles.App.Render(sb.String())
}
