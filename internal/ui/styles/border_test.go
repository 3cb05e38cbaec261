package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/lipgloss"
)

// Test colors for border rendering tests
var (
	testColorRed   = lipgloss.Color("#FF0000")
	testColorGreen = lipgloss.Color("#00FF00")
)

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestPanel_Basic(t *testing.T) {
	result := Panel{Title: "Title", Width: 20}.Render("content")

	require.Contains(t, result, "╭", "missing top-left corner")
	require.Contains(t, result, "╮", "missing top-right corner")
	require.Contains(t, result, "╰", "missing bottom-left corner")
	require.Contains(t, result, "╯", "missing bottom-right corner")

	lines := plainLines(result)
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Title", "title not found in first line")
	require.Contains(t, lines[1], "content")
}

func TestPanel_EveryLineHasOuterWidth(t *testing.T) {
	p := Panel{Title: "Listen", Badge: "Attempts: 1 / 3", Width: 40, Padding: 2}
	for _, line := range plainLines(p.Render("one\ntwo\nthree")) {
		require.Equal(t, 40, ansi.StringWidth(line), "line %q", line)
	}
}

func TestPanel_MinHeight(t *testing.T) {
	lines := plainLines(Panel{Width: 10, MinHeight: 6}.Render("x"))
	require.Len(t, lines, 6)

	// Content taller than MinHeight grows the panel.
	lines = plainLines(Panel{Width: 10, MinHeight: 3}.Render("a\nb\nc"))
	require.Len(t, lines, 5)
}

func TestPanel_TruncatesWideLines(t *testing.T) {
	lines := plainLines(Panel{Width: 12}.Render("this line is far too wide"))
	require.Equal(t, 12, ansi.StringWidth(lines[1]))
	require.Contains(t, lines[1], "…")
}

func TestPanel_Focused(t *testing.T) {
	unfocused := Panel{Title: "Title", Width: 20, FocusColor: testColorRed}.Render("content")
	focused := Panel{Title: "Title", Width: 20, Focused: true, FocusColor: testColorRed}.Render("content")

	require.Equal(t, plainLines(unfocused), plainLines(focused), "focus changes color only")
}

func TestPanel_StyledContentKeepsAlignment(t *testing.T) {
	content := lipgloss.NewStyle().Foreground(testColorGreen).Bold(true).Render("Welcome!")
	for _, line := range plainLines(Panel{Width: 24, Padding: 1}.Render(content)) {
		require.Equal(t, 24, ansi.StringWidth(line))
	}
}

func TestTopEdge(t *testing.T) {
	borderStyle := lipgloss.NewStyle().Foreground(BorderDefaultColor)
	titleStyle := lipgloss.NewStyle().Foreground(testColorGreen)

	tests := []struct {
		name       string
		title      string
		badge      string
		innerWidth int
		wantTitle  bool
		wantBadge  bool
	}{
		{"title only", "Title", "", 20, true, false},
		{"both", "Title", "1/3", 20, true, true},
		{"badge only", "", "1/3", 20, false, true},
		{"badge dropped when narrow", "Title", "Attempts", 14, true, false},
		{"empty", "", "", 20, false, false},
		{"too narrow", "Title", "", 3, false, false},
		{"just enough", "T", "", 5, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(topEdge(tt.title, tt.badge, tt.innerWidth, borderStyle, titleStyle))

			require.True(t, strings.HasPrefix(got, "╭"), "should start with top-left corner")
			require.True(t, strings.HasSuffix(got, "╮"), "should end with top-right corner")
			require.Equal(t, tt.innerWidth+2, ansi.StringWidth(got), "edge %q", got)
			if tt.wantTitle {
				require.Contains(t, got, tt.title)
			}
			if tt.badge != "" {
				require.Equal(t, tt.wantBadge, strings.Contains(got, tt.badge))
			}
		})
	}
}

func TestTopEdge_LongTitleTruncated(t *testing.T) {
	borderStyle := lipgloss.NewStyle()
	got := ansi.Strip(topEdge("This Is A Very Long Title That Should Be Truncated", "", 18, borderStyle, borderStyle))
	require.Equal(t, 20, ansi.StringWidth(got))
	require.Contains(t, got, "...")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very short", "Hello", 3, "..."},
		{"minimal", "Hello", 1, "."},
		{"zero", "Hello", 0, ""},
		{"wide runes", "音声テスト", 7, "音声..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.want, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}
