package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/adapters/editor"
	"routecheck/internal/adapters/tui/views"
	"routecheck/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewIssues ViewState = iota
	ViewChoice
	ViewHelp
)

// App is the main TUI application model
type App struct {
	engine      *application.Engine
	editor      *editor.Opener
	projectPath string

	state  ViewState
	issues *views.IssuesModel
	choice *views.ChoiceModel
	help   *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(engine *application.Engine, ed *editor.Opener, projectPath string) *App {
	return &App{
		engine:      engine,
		editor:      ed,
		projectPath: projectPath,
		state:       ViewIssues,
		issues:      views.NewIssuesModel(engine),
		choice:      views.NewChoiceModel(engine),
		help:        views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.issues.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.issues.SetSize(msg.Width, msg.Height)
		a.choice.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToChoiceMsg:
		a.state = ViewChoice
		a.choice.SetConflict(msg.Report, msg.Suggestion)
		return a, a.choice.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToIssuesMsg:
		a.state = ViewIssues
		if msg.Reload {
			return a, a.issues.Reload()
		}
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(a.projectPath)

	case editorFinishedMsg:
		a.state = ViewIssues
		return a, a.issues.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewIssues:
		_, cmd = a.issues.Update(msg)
	case ViewChoice:
		_, cmd = a.choice.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		// The project file may have changed under us; scan again.
		a.engine.InvalidateCache()
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewChoice:
		return a.choice.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.issues.View()
	}
}
