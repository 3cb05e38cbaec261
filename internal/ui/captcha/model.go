// Package captcha is the terminal front end of a challenge session. It
// renders the runner's state and turns keys and clicks into Play and Submit
// calls.
package captcha

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/oddear/internal/log"
	"github.com/zjrosen/oddear/internal/runner"
	"github.com/zjrosen/oddear/internal/ui/styles"
)

// Clickable zone IDs.
const (
	zonePlay   = "oddear-play"
	zoneSubmit = "oddear-submit"
)

const maxPanelWidth = 64

// PlayDoneMsg is sent when a playback sequence ends.
type PlayDoneMsg struct {
	Report runner.Report
	Err    error
}

// regenerateMsg asks for a fresh challenge once a wrong answer has been
// on screen long enough. challengeID guards against stale ticks.
type regenerateMsg struct {
	challengeID string
}

// Config wires the model.
type Config struct {
	Runner *runner.Runner
	Feed   *Feed
	// Zones tracks clickable regions. Nil creates a private manager.
	Zones *zone.Manager
	// Context bounds playback. Cancelling it stops a running sequence.
	Context      context.Context
	ShowAttempts bool
	// Badge is shown on the right of the panel's top edge, e.g. the sound
	// source kind.
	Badge string
}

// Model is the bubbletea model of a challenge session.
type Model struct {
	runner *runner.Runner
	feed   *Feed
	zones  *zone.Manager
	ctx    context.Context

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	helpView viewport.Model

	showAttempts bool
	badge        string

	playing    bool
	showHelp   bool
	hover      string
	lastReport runner.Report

	width  int
	height int
}

// New creates the model. cfg.Runner is required.
func New(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Enter 1–4"
	input.CharLimit = 3
	input.Width = 10
	input.Prompt = "› "
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = styles.PlayingStyle

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	zones := cfg.Zones
	if zones == nil {
		zones = zone.New()
	}
	feed := cfg.Feed
	if feed == nil {
		feed = NewFeed()
	}

	return Model{
		runner:       cfg.Runner,
		feed:         feed,
		zones:        zones,
		ctx:          ctx,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		input:        input,
		spinner:      sp,
		helpView:     viewport.New(0, 0),
		showAttempts: cfg.ShowAttempts,
		badge:        cfg.Badge,
	}
}

// Init starts listening for status changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.wait())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = m.innerWidth()
	m.helpView.Width = m.innerWidth()
	m.helpView.Height = max(height-4, 3)
	if m.showHelp {
		m.helpView.SetContent(renderHelp(m.innerWidth()))
	}
	return m
}

// Playing reports whether a playback sequence started by the model is running.
func (m Model) Playing() bool {
	return m.playing
}

// LastReport returns the report of the most recent finished sequence.
func (m Model) LastReport() runner.Report {
	return m.lastReport
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case StatusMsg:
		log.Debug(log.CatUI, "Status changed", "status", msg.Status)
		return m, m.feed.wait()

	case PlayDoneMsg:
		m.playing = false
		m.lastReport = msg.Report
		if msg.Err != nil && !errors.Is(msg.Err, runner.ErrPlaybackInProgress) {
			log.ErrorErr(log.CatUI, "Playback ended with error", msg.Err)
		}
		return m, nil

	case regenerateMsg:
		if m.runner.Snapshot().ChallengeID != msg.challengeID {
			return m, nil
		}
		if err := m.runner.Regenerate(); err != nil {
			log.ErrorErr(log.CatUI, "Failed to regenerate challenge", err)
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case spinner.TickMsg:
		if !m.playing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc", msg.String() == "q":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	if m.runner.Snapshot().Outcome.Terminal() {
		switch msg.String() {
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Play):
		return m.play()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView.SetContent(renderHelp(m.innerWidth()))
		m.helpView.GotoTop()
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !answerRunes(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// answerRunes reports whether typed runes may go into the answer input.
func answerRunes(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.runner.Snapshot().Outcome.Terminal() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover = ""
		for _, id := range []string{zonePlay, zoneSubmit} {
			if m.zones.Get(id).InBounds(msg) {
				m.hover = id
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch {
		case m.zones.Get(zonePlay).InBounds(msg):
			return m.play()
		case m.zones.Get(zoneSubmit).InBounds(msg):
			return m.submit()
		}
	}
	return m, nil
}

// play starts the sequence in a command. Presses while playing are ignored.
func (m Model) play() (tea.Model, tea.Cmd) {
	if m.playing {
		return m, nil
	}
	m.playing = true

	r, ctx := m.runner, m.ctx
	run := func() tea.Msg {
		report, err := r.Play(ctx)
		return PlayDoneMsg{Report: report, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

// submit evaluates the typed answer and clears the input.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	m.input.Reset()

	res, err := m.runner.Submit(m.ctx, text)
	if err != nil {
		log.Debug(log.CatUI, "Submit ignored", "error", err.Error())
		return m, nil
	}

	switch res.Verdict {
	case runner.VerdictRetry:
		id := m.runner.Snapshot().ChallengeID
		return m, tea.Tick(res.RegenerateAfter, func(time.Time) tea.Msg {
			return regenerateMsg{challengeID: id}
		})
	case runner.VerdictCorrect, runner.VerdictBlocked:
		m.input.Blur()
	}
	return m, nil
}

func (m Model) panelWidth() int {
	if m.width <= 0 {
		return maxPanelWidth
	}
	return min(m.width, maxPanelWidth)
}

// innerWidth is the text width inside the panel border and padding.
func (m Model) innerWidth() int {
	return max(m.panelWidth()-2-2*panelPadding, 10)
}
