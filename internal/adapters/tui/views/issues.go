package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/adapters/tui/styles"
	"routecheck/internal/application"
	"routecheck/internal/application/commands"
	"routecheck/internal/domain"
)

// IssueKeyMap defines key bindings for the issue list view
type IssueKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Apply    key.Binding
	ApplyAll key.Binding
	Choose   key.Binding
	Validate key.Binding
	Yank     key.Binding
	Editor   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var IssueKeys = IssueKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Apply: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fix selected"),
	),
	ApplyAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "fix all"),
	),
	Choose: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "choose convention"),
	),
	Validate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "revalidate"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy report"),
	),
	Editor: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "open project"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// IssuesModel is the issue browser: the list of found issues with the
// suggestion detail for the selected one.
type IssuesModel struct {
	engine *application.Engine

	report     *application.Report
	cursor     int
	width      int
	height     int
	message    string
	messageErr bool

	// True while a validate or apply command is in flight. The engine is
	// single-threaded, so a second command must not start until the first
	// reports back.
	busy bool
}

// NewIssuesModel creates a new issue browser.
func NewIssuesModel(engine *application.Engine) *IssuesModel {
	return &IssuesModel{engine: engine}
}

// Init triggers the first validation.
func (m *IssuesModel) Init() tea.Cmd {
	return m.validate(false)
}

// SetSize updates the view dimensions.
func (m *IssuesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Report exposes the current report to the app model.
func (m *IssuesModel) Report() *application.Report {
	return m.report
}

// Reload forces a fresh validation pass.
func (m *IssuesModel) Reload() tea.Cmd {
	return m.validate(true)
}

func (m *IssuesModel) validate(force bool) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		cmd := commands.NewValidateCommand(m.engine, force)
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return reportMsg{result.Report}
	}
}

// Update handles messages for the issue browser.
func (m *IssuesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case reportMsg:
		m.busy = false
		m.report = msg.report
		if m.cursor >= len(m.report.Issues) {
			m.cursor = 0
		}
		return m, nil

	case appliedMsg:
		m.message = msg.message
		m.messageErr = false
		return m, m.validate(true)

	case errMsg:
		m.busy = false
		m.message = msg.err.Error()
		m.messageErr = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *IssuesModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		switch {
		case key.Matches(msg, IssueKeys.Apply),
			key.Matches(msg, IssueKeys.ApplyAll),
			key.Matches(msg, IssueKeys.Validate),
			key.Matches(msg, IssueKeys.Choose),
			key.Matches(msg, IssueKeys.Editor):
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, IssueKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, IssueKeys.Down):
		if m.report != nil && m.cursor < len(m.report.Issues)-1 {
			m.cursor++
		}

	case key.Matches(msg, IssueKeys.Validate):
		m.message = ""
		return m, m.validate(true)

	case key.Matches(msg, IssueKeys.Apply):
		if s := m.selectedSuggestion(); s != nil {
			if s.RequiresChoice {
				m.message = "this fix needs a convention choice, press c"
				m.messageErr = true
				return m, nil
			}
			return m, m.applyOne(s)
		}

	case key.Matches(msg, IssueKeys.ApplyAll):
		if m.report != nil && !m.report.Clean() {
			return m, m.applyAll()
		}

	case key.Matches(msg, IssueKeys.Choose):
		if s := m.selectedSuggestion(); s != nil && s.RequiresChoice {
			report := m.report
			return m, func() tea.Msg {
				return SwitchToChoiceMsg{Suggestion: s, Report: report}
			}
		}

	case key.Matches(msg, IssueKeys.Yank):
		if m.report != nil {
			text := domain.RenderReport(m.report.Graph, m.report.Issues, m.report.Suggestions)
			if err := clipboard.WriteAll(text); err != nil {
				m.message = err.Error()
				m.messageErr = true
			} else {
				m.message = "report copied to clipboard"
				m.messageErr = false
			}
		}

	case key.Matches(msg, IssueKeys.Editor):
		return m, func() tea.Msg { return OpenEditorMsg{} }

	case key.Matches(msg, IssueKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, IssueKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *IssuesModel) selectedSuggestion() *domain.FixSuggestion {
	if m.report == nil || m.cursor >= len(m.report.Issues) {
		return nil
	}
	// Suggestions carry the issue they address; match on it.
	issue := m.report.Issues[m.cursor]
	for _, s := range m.report.Suggestions {
		if s.Issue.Kind == issue.Kind && s.Issue.TrackIndex == issue.TrackIndex &&
			s.Issue.Description == issue.Description {
			return s
		}
	}
	return nil
}

func (m *IssuesModel) applyOne(s *domain.FixSuggestion) tea.Cmd {
	m.busy = true
	report := m.report
	return func() tea.Msg {
		cmd := commands.NewApplyCommand(m.engine, report, s.ID, false)
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return appliedMsg{result.Message}
	}
}

func (m *IssuesModel) applyAll() tea.Cmd {
	m.busy = true
	report := m.report
	return func() tea.Msg {
		cmd := commands.NewApplyCommand(m.engine, report, "", true)
		result, err := cmd.Execute(context.Background())
		if err != nil && result == nil {
			return errMsg{err}
		}
		return appliedMsg{result.Message}
	}
}

// View renders the issue browser.
func (m *IssuesModel) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Routing issues"))
	sb.WriteString("\n")

	if m.report == nil {
		sb.WriteString(styles.MutedText.Render("validating..."))
		return styles.App.Render(sb.String())
	}

	if m.report.Clean() {
		sb.WriteString(styles.Success.Render("✓ no routing issues"))
		sb.WriteString("\n\n")
		sb.WriteString(m.statusBar())
		return styles.App.Render(sb.String())
	}

	for i, issue := range m.report.Issues {
		badge := styles.SeverityStyle(issue.Severity).Render(fmt.Sprintf("%-7s", strings.ToUpper(issue.Severity.String())))
		track := styles.TrackName.Render(domain.TrackLabel(m.report.Graph, issue.TrackIndex))
		line := fmt.Sprintf("%s %-24s %s", badge, issue.Kind, track)
		if i == m.cursor {
			line = styles.RowSelected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.detailPane())
	sb.WriteString("\n")
	sb.WriteString(m.statusBar())
	return styles.App.Render(sb.String())
}

func (m *IssuesModel) detailPane() string {
	if m.cursor >= len(m.report.Issues) {
		return ""
	}
	issue := m.report.Issues[m.cursor]

	var sb strings.Builder
	sb.WriteString(issue.Description)
	sb.WriteString("\n")

	if s := m.selectedSuggestion(); s != nil {
		sb.WriteString(styles.DetailLabel.Render("fix: "))
		sb.WriteString(s.Reason)
		if s.RequiresChoice {
			sb.WriteString("\n")
			sb.WriteString(styles.ChoiceHint.Render("requires an explicit choice (press c)"))
		}
	} else {
		sb.WriteString(styles.DetailLabel.Render("no automatic fix available"))
	}
	return styles.DetailBox.Render(sb.String())
}

func (m *IssuesModel) statusBar() string {
	if m.message != "" {
		if m.messageErr {
			return styles.ErrorMsg.Render(m.message)
		}
		return styles.Success.Render(m.message)
	}
	errs, warns, _ := m.report.Counts()
	status := fmt.Sprintf("%d error(s) · %d warning(s) · f fix · a fix all · r revalidate · ? help",
		errs, warns)
	if m.report.FromCache {
		status += " · (cached)"
	}
	return styles.StatusBar.Render(status)
}
