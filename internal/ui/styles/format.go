package styles

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"
)

// FormatAttempts renders the attempt counter, e.g. "Attempts: 1 / 3".
func FormatAttempts(used, limit int) string {
	used = min(max(used, 0), limit)
	return fmt.Sprintf("Attempts: %d / %d", used, limit)
}

// FormatReveal renders the position of the odd clip. position is 1-indexed.
func FormatReveal(position int) string {
	return fmt.Sprintf("The odd sound was number %d.", position)
}

// WrapText word-wraps s to width columns. Widths below 1 leave s unchanged.
func WrapText(s string, width int) string {
	if width < 1 {
		return s
	}
	return wordwrap.String(s, width)
}
