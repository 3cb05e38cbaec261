// Package misconfig provides the view shown when the session cannot start
// because the configuration or sound pack is invalid.
package misconfig

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/oddear/internal/ui/styles"
)

// Waveform that goes flat in the middle.
var waveLines = []string{
	"  ▁▃▅▇▅▃▁                ▁▃▅▇▅▃▁  ",
	"▁▃█████████▃▁ ─ ─ ─ ─ ▁▃█████████▃▁",
}

// Model holds the misconfig view state.
type Model struct {
	err        error
	configPath string
	logLines   []string
	width      int
	height     int
}

// New creates the view for err. configPath is the file in use, if any.
func New(err error, configPath string) Model {
	return Model{err: err, configPath: configPath}
}

// WithLog returns a copy that also lists recent log lines, typically the
// warnings that led to err.
func (m Model) WithLog(lines []string) Model {
	m.logLines = lines
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the error screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	art := styles.HintStyle.Render(strings.Join(waveLines, "\n"))

	titleStyle := styles.TitleStyle.MarginTop(1)
	messageStyle := styles.StatusStyle
	hintStyle := styles.HintStyle.Italic(true).MarginTop(2)

	wrap := max(min(m.width-4, 72), 20)

	var content strings.Builder
	content.WriteString(art)
	content.WriteString("\n\n")
	content.WriteString(titleStyle.Render("The challenge could not start."))
	content.WriteString("\n\n")
	if m.err != nil {
		content.WriteString(styles.ErrorTextStyle.Render(styles.WrapText(m.err.Error(), wrap)))
		content.WriteString("\n\n")
	}
	if m.configPath != "" {
		content.WriteString(messageStyle.Render("Config file: " + m.configPath))
		content.WriteString("\n\n")
	}
	if len(m.logLines) > 0 {
		content.WriteString(messageStyle.Render("Recent log:"))
		content.WriteString("\n")
		for _, line := range m.logLines {
			content.WriteString(styles.HintStyle.Render(ansi.Truncate(line, wrap, "…")))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}
	content.WriteString(messageStyle.Render("Try one of these options:"))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("  1. Run 'oddear check' to see which sounds fail"))
	content.WriteString("\n")
	content.WriteString(messageStyle.Render("  2. Run 'oddear init' to write a fresh config file"))
	content.WriteString("\n")
	content.WriteString(messageStyle.Render("  3. Use --demo to play the built-in sound pack"))
	content.WriteString("\n")
	content.WriteString(hintStyle.Render("Press q to quit"))

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	return containerStyle.Render(content.String())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}
