package captcha

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# How it works

Press **p** or click **Play Sounds**. Four short sounds play one after
another over a low hum. Three of them belong to the same category and one
does not.

Type the number of the odd sound (1 to 4) and press **enter** or click
**Submit**.

## Attempts

- A wrong answer costs one attempt and brings a fresh set of sounds.
- Anything other than a number from 1 to 4 is rejected without cost.
- After 3 wrong answers access is blocked and the odd sound is revealed.

## Keys

| Key | Action |
|-----|--------|
| p | play the sounds |
| 1-4 | type an answer |
| enter | submit |
| ? | toggle this help |
| q / esc | quit |
`

// renderHelp renders the help text for the given width. The plain markdown
// is returned if glamour fails.
func renderHelp(width int) string {
	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.Trim(out, "\n")
}
