package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel draws content inside a rounded border with a title on the left of
// the top edge and an optional badge on the right:
//
//	╭─ Title ──────────── Badge ─╮
type Panel struct {
	Title string
	Badge string
	// Width is the outer width including both side borders.
	Width int
	// MinHeight is the outer height floor; taller content grows the panel.
	MinHeight int
	// Padding is the number of blank columns inside each side border.
	Padding    int
	Focused    bool
	TitleColor lipgloss.TerminalColor
	FocusColor lipgloss.TerminalColor
}

// Render returns content framed by the panel. Lines wider than the inner
// width are cut with an ellipsis.
func (p Panel) Render(content string) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if p.Focused && p.FocusColor != nil {
		borderColor = p.FocusColor
	}
	var titleColor lipgloss.TerminalColor = TextPrimaryColor
	if p.TitleColor != nil {
		titleColor = p.TitleColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)

	innerWidth := max(p.Width-2, 1)
	pad := min(max(p.Padding, 0), (innerWidth-1)/2)
	textWidth := innerWidth - 2*pad

	lines := strings.Split(content, "\n")
	for len(lines) < p.MinHeight-2 {
		lines = append(lines, "")
	}

	var b strings.Builder
	b.WriteString(topEdge(p.Title, p.Badge, innerWidth, borderStyle, titleStyle))
	for _, line := range lines {
		if ansi.StringWidth(line) > textWidth {
			line = ansi.Truncate(line, textWidth, "…")
		}
		fill := textWidth - ansi.StringWidth(line)
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", fill+pad))
		b.WriteString(borderStyle.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// topEdge builds the top border. When both labels do not fit, the badge is
// dropped first, then the title is shortened.
func topEdge(title, badge string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}
	if title == "" && badge == "" {
		return plain()
	}

	titleW := runewidth.StringWidth(title)
	badgeW := runewidth.StringWidth(badge)

	// "─ " + title + " " + dashes(>=1) + " " + badge + " ─"
	if title != "" && badge != "" && innerWidth < titleW+badgeW+7 {
		badge, badgeW = "", 0
	}
	if badge == "" {
		// "─ " + title + " " + dashes(>=1)
		if innerWidth < 5 {
			return plain()
		}
		if titleW > innerWidth-4 {
			title = TruncateString(title, innerWidth-4)
			titleW = runewidth.StringWidth(title)
		}
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	used := 0
	if title != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(title))
		b.WriteString(borderStyle.Render(" "))
		used += titleW + 3
	}
	if badge != "" {
		used += badgeW + 3
		if title == "" && innerWidth < used+1 {
			return plain()
		}
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-used, 1))))
	if badge != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(badge))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
