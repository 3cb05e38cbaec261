package captcha

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/oddear/internal/runner"
)

// StatusMsg carries a status change from the runner into the program.
type StatusMsg struct {
	Status string
}

// Feed forwards runner status changes to the UI. The view always renders
// the runner's snapshot, so a full buffer only drops redundant wake-ups.
type Feed struct {
	ch chan string
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan string, 64)}
}

// Sink returns the runner.StatusSink that publishes into the feed.
func (f *Feed) Sink() runner.StatusSink {
	return func(status string) {
		select {
		case f.ch <- status:
		default:
		}
	}
}

// wait blocks until the next status arrives.
func (f *Feed) wait() tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Status: <-f.ch}
	}
}
