package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/adapters/tui/styles"
)

// HelpModel is the static help view.
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view.
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// SetSize updates the view dimensions.
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update returns to the issue list on any key.
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, func() tea.Msg { return SwitchToIssuesMsg{} }
	}
	return m, nil
}

// View renders the help view.
func (m *HelpModel) View() string {
	rows := [][2]string{
		{"j/k", "move"},
		{"f", "apply the selected fix"},
		{"a", "apply every fix that needs no choice"},
		{"c", "choose an ordering convention"},
		{"r", "revalidate (forces a fresh scan)"},
		{"y", "copy issue report to clipboard"},
		{"e", "open the project file in $EDITOR"},
		{"q", "quit"},
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Help"))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(styles.HelpKey.Render(padRight(row[0], 6)))
		sb.WriteString(styles.HelpDesc.Render(row[1]))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(styles.MutedText.Render("press any key to go back"))
	return styles.App.Render(sb.String())
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
