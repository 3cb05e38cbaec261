package captcha

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/oddear/internal/runner"
	"github.com/zjrosen/oddear/internal/ui/styles"
)

const (
	panelPadding = 2

	titleChallenge = "Odd-One-Out Audio CAPTCHA"
	titleSuccess   = "✅ Welcome!"
	titleBlocked   = "🚫 Access Denied"
	bodySuccess    = "You successfully passed the audio CAPTCHA."
	bodyBlocked    = "You failed the challenge too many times."
	quitHint       = "Press q to quit"
)

// View renders the current screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	snap := m.runner.Snapshot()

	var body string
	switch {
	case m.showHelp:
		body = m.helpPanel()
	case snap.Outcome == runner.Success:
		body = m.successView()
	case snap.Outcome == runner.Blocked:
		body = m.blockedView(snap)
	default:
		body = m.challengeView(snap)
	}

	placed := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	return m.zones.Scan(placed)
}

func (m Model) center(s string) string {
	return lipgloss.PlaceHorizontal(m.innerWidth(), lipgloss.Center, s)
}

func (m Model) panel(title string) styles.Panel {
	return styles.Panel{
		Title:   title,
		Badge:   m.badge,
		Width:   m.panelWidth(),
		Padding: panelPadding,
	}
}

func (m Model) challengeView(snap runner.Snapshot) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.center(m.button(zonePlay, "Play Sounds", m.playing)))
	b.WriteString("\n\n")
	b.WriteString(m.center(m.input.View() + "  " + m.button(zoneSubmit, "Submit", false)))
	b.WriteString("\n\n")

	status := snap.Status
	if m.playing {
		status = m.spinner.View() + " " + status
	}
	for _, line := range strings.Split(styles.WrapText(status, m.innerWidth()), "\n") {
		b.WriteString(m.center(styles.StatusStyle.Render(line)))
		b.WriteString("\n")
	}

	if snap.Reveal {
		b.WriteString(m.center(styles.RevealStyle.Render(styles.FormatReveal(snap.RevealedPosition))))
		b.WriteString("\n")
	}
	if m.showAttempts {
		b.WriteString(m.center(styles.AttemptStyle.Render(styles.FormatAttempts(snap.Attempts.Used, snap.Attempts.Max))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.center(m.help.View(m.keys)))

	return m.panel(titleChallenge).Render(b.String())
}

func (m Model) successView() string {
	lines := []string{
		"",
		m.center(styles.SuccessBannerStyle.Render(titleSuccess)),
		"",
		m.center(styles.TextStyle.Render(bodySuccess)),
		"",
		m.center(styles.HintStyle.Render(quitHint)),
	}
	return m.panel(titleChallenge).Render(strings.Join(lines, "\n"))
}

func (m Model) blockedView(snap runner.Snapshot) string {
	lines := []string{
		"",
		m.center(styles.BlockedBannerStyle.Render(titleBlocked)),
		"",
		m.center(styles.TextStyle.Render(bodyBlocked)),
	}
	if snap.Reveal {
		lines = append(lines, m.center(styles.RevealStyle.Render(styles.FormatReveal(snap.RevealedPosition))))
	}
	if m.showAttempts {
		lines = append(lines, m.center(styles.AttemptStyle.Render(styles.FormatAttempts(snap.Attempts.Used, snap.Attempts.Max))))
	}
	lines = append(lines, "", m.center(styles.HintStyle.Render(quitHint)))
	return m.panel(titleChallenge).Render(strings.Join(lines, "\n"))
}

func (m Model) helpPanel() string {
	p := m.panel("Help")
	p.Badge = "? to close"
	p.Focused = true
	p.FocusColor = styles.BorderHighlightFocusColor
	return p.Render(m.helpView.View())
}

// button renders a clickable label. Disabled buttons are not marked.
func (m Model) button(id, label string, disabled bool) string {
	switch {
	case disabled:
		return styles.DisabledButtonStyle.Render(label)
	case m.hover == id:
		return m.zones.Mark(id, styles.PrimaryButtonHoverStyle.Render(label))
	default:
		return m.zones.Mark(id, styles.PrimaryButtonStyle.Render(label))
	}
}
