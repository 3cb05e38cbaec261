package captcha

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/runner"
	"github.com/zjrosen/oddear/internal/sound"
)

type session struct {
	runner *runner.Runner
	feed   *Feed
	zones  *zone.Manager
	output *sound.Headless
}

func newSession(t *testing.T) session {
	t.Helper()

	pack, err := assets.Open(assets.Options{Kind: assets.KindDemo})
	require.NoError(t, err)
	cats, err := pack.Categories(context.Background())
	require.NoError(t, err)

	s := session{feed: NewFeed(), zones: zone.New(), output: &sound.Headless{Scale: 0.0001}}
	t.Cleanup(s.zones.Close)

	s.runner, err = runner.New(runner.Config{
		Categories: cats,
		Source:     pack.Source,
		Output:     s.output,
		Timing: &runner.Timing{
			InterClipPause:  time.Millisecond,
			FetchErrorDelay: time.Millisecond,
			RegenerateDelay: time.Millisecond,
		},
		OnStatus: s.feed.Sink(),
	})
	require.NoError(t, err)
	return s
}

func (s session) model() Model {
	return New(Config{
		Runner:       s.runner,
		Feed:         s.feed,
		Zones:        s.zones,
		ShowAttempts: true,
		Badge:        "demo",
	}).SetSize(80, 30)
}

func (s session) right() string {
	return fmt.Sprint(s.runner.Current().OutlierPosition() + 1)
}

func (s session) wrong() string {
	return fmt.Sprint((s.runner.Current().OutlierPosition()+1)%4 + 1)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func plain(m Model) string {
	return ansi.Strip(m.View())
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t)
	m := s.model()

	assert.Equal(t, "Enter 1–4", m.input.Placeholder)
	assert.Equal(t, 3, m.input.CharLimit)
	assert.True(t, m.input.Focused(), "answer input starts focused")
	assert.False(t, m.Playing())
	assert.NotNil(t, m.Init())
}

func TestView_EmptyBeforeSize(t *testing.T) {
	s := newSession(t)
	m := New(Config{Runner: s.runner, Zones: s.zones})
	assert.Empty(t, m.View())
}

func TestView_Challenge(t *testing.T) {
	s := newSession(t)
	view := plain(s.model())

	for _, want := range []string{titleChallenge, "Play Sounds", "Submit", "Enter 1–4", "Attempts: 0 / 3", "demo"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "The odd sound was")
}

func TestView_AttemptsHidden(t *testing.T) {
	s := newSession(t)
	m := New(Config{Runner: s.runner, Zones: s.zones}).SetSize(80, 30)
	assert.NotContains(t, plain(m), "Attempts:")
}

func TestInput_OnlyDigits(t *testing.T) {
	s := newSession(t)
	m := typeText(s.model(), "a2x")
	assert.Equal(t, "2", m.input.Value())

	m = typeText(m, "345")
	assert.Equal(t, "234", m.input.Value(), "char limit caps the answer")
}

func TestSubmit_InvalidConsumesNoAttempt(t *testing.T) {
	s := newSession(t)
	m := typeText(s.model(), "9")

	m, cmd := press(m, enter)
	assert.Nil(t, cmd)
	assert.Empty(t, m.input.Value(), "input cleared after submit")

	snap := s.runner.Snapshot()
	assert.Equal(t, runner.StatusInvalid, snap.Status)
	assert.Equal(t, 0, snap.Attempts.Used)
	assert.Contains(t, plain(m), runner.StatusInvalid)
}

func TestSubmit_WrongRegenerates(t *testing.T) {
	s := newSession(t)
	before := s.runner.Snapshot().ChallengeID

	m := typeText(s.model(), s.wrong())
	m, cmd := press(m, enter)
	require.NotNil(t, cmd, "wrong answer schedules a regeneration")
	assert.Contains(t, plain(m), "Wrong. 2 attempts left. Try again.")
	assert.Contains(t, plain(m), "Attempts: 1 / 3")

	// Typed during the retry delay; the new challenge starts with an empty box.
	m = typeText(m, "3")
	require.Equal(t, "3", m.input.Value())

	msg := cmd()
	require.IsType(t, regenerateMsg{}, msg)
	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Empty(t, m.input.Value())

	snap := s.runner.Snapshot()
	assert.NotEqual(t, before, snap.ChallengeID)
	assert.Empty(t, snap.Status)
	assert.Equal(t, 1, snap.Attempts.Used)
}

func TestRegenerate_StaleTickIgnored(t *testing.T) {
	s := newSession(t)
	m := s.model()
	id := s.runner.Snapshot().ChallengeID

	_, cmd := m.Update(regenerateMsg{challengeID: "stale"})
	assert.Nil(t, cmd)
	assert.Equal(t, id, s.runner.Snapshot().ChallengeID)
}

func TestSubmit_CorrectShowsWelcome(t *testing.T) {
	s := newSession(t)
	m := typeText(s.model(), s.right())

	m, _ = press(m, enter)
	view := plain(m)
	assert.Contains(t, view, titleSuccess)
	assert.Contains(t, view, bodySuccess)
	assert.NotContains(t, view, "Play Sounds")
	assert.False(t, m.input.Focused())

	// Further input is ignored; q quits.
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Nil(t, cmd)
	_, cmd = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestSubmit_ThreeWrongShowsAccessDenied(t *testing.T) {
	s := newSession(t)
	m := s.model()

	for i := 0; i < runner.MaxAttempts; i++ {
		m = typeText(m, s.wrong())
		var cmd tea.Cmd
		m, cmd = press(m, enter)
		if i < runner.MaxAttempts-1 {
			require.NotNil(t, cmd)
			next, _ := m.Update(cmd())
			m = next.(Model)
		}
	}

	snap := s.runner.Snapshot()
	require.Equal(t, runner.Blocked, snap.Outcome)

	view := plain(m)
	assert.Contains(t, view, titleBlocked)
	assert.Contains(t, view, bodyBlocked)
	assert.Contains(t, view, fmt.Sprintf("The odd sound was number %d.", snap.RevealedPosition))
	assert.Contains(t, view, "Attempts: 3 / 3")
}

// runBatch executes every command of a batch and returns the messages.
func runBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected a batch")
	var msgs []tea.Msg
	for _, c := range batch {
		if c != nil {
			msgs = append(msgs, c())
		}
	}
	return msgs
}

func TestPlay_RunsSequence(t *testing.T) {
	s := newSession(t)
	m, cmd := press(s.model(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	require.True(t, m.Playing())
	assert.Contains(t, plain(m), "Play Sounds")

	_, again := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Nil(t, again, "play is ignored while playing")

	var done *PlayDoneMsg
	for _, msg := range runBatch(t, cmd) {
		if d, ok := msg.(PlayDoneMsg); ok {
			done = &d
		}
	}
	require.NotNil(t, done)
	require.NoError(t, done.Err)
	assert.Len(t, done.Report.Steps, 4)

	next, _ := m.Update(*done)
	m = next.(Model)
	assert.False(t, m.Playing())
	assert.Len(t, m.LastReport().Steps, 4)
	assert.Len(t, s.output.PlayedClips(), 4)
	assert.Contains(t, plain(m), runner.StatusPrompt)
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	s := newSession(t)
	m := s.model()
	_, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
}

func TestStatusMsg_KeepsListening(t *testing.T) {
	s := newSession(t)
	_, cmd := s.model().Update(StatusMsg{Status: "x"})
	assert.NotNil(t, cmd)
}

func TestFeed_DropsWhenFull(t *testing.T) {
	f := NewFeed()
	sink := f.Sink()
	for i := 0; i < cap(f.ch)+10; i++ {
		sink("status")
	}
	assert.Len(t, f.ch, cap(f.ch))
	assert.Equal(t, StatusMsg{Status: "status"}, f.wait()())
}

func TestHelp_Toggle(t *testing.T) {
	s := newSession(t)
	m, _ := press(s.model(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	view := plain(m)
	assert.Contains(t, view, "How it works")
	assert.Contains(t, view, "? to close")

	// Keys do not reach the input while help is open.
	m = typeText(m, "2")
	assert.Empty(t, m.input.Value())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, plain(m), "Play Sounds")
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			_, cmd := press(s.model(), tt.key)
			require.NotNil(t, cmd)
			_, isQuit := cmd().(tea.QuitMsg)
			assert.True(t, isQuit)
		})
	}
}

func TestMouse_ClickSubmit(t *testing.T) {
	s := newSession(t)
	m := typeText(s.model(), "7")
	_ = m.View()

	var z *zone.ZoneInfo
	require.Eventually(t, func() bool {
		z = s.zones.Get(zoneSubmit)
		return !z.IsZero()
	}, time.Second, 5*time.Millisecond)

	click := tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	}
	m, _ = press(m, click)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, runner.StatusInvalid, s.runner.Snapshot().Status)
}

func TestMouse_HoverHighlightsButton(t *testing.T) {
	s := newSession(t)
	m := s.model()
	_ = m.View()

	var z *zone.ZoneInfo
	require.Eventually(t, func() bool {
		z = s.zones.Get(zonePlay)
		return !z.IsZero()
	}, time.Second, 5*time.Millisecond)

	m, _ = press(m, tea.MouseMsg{X: z.StartX, Y: z.StartY, Action: tea.MouseActionMotion})
	assert.Equal(t, zonePlay, m.hover)

	m, _ = press(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.Empty(t, m.hover)
}

func TestProgram_PlayAndAnswer(t *testing.T) {
	s := newSession(t)
	m := New(Config{Runner: s.runner, Feed: s.feed, Zones: s.zones, ShowAttempts: true})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Enter the number of the odd sound"))
	}, teatest.WithDuration(5*time.Second))

	tm.Type(s.right())
	tm.Send(enter)
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(ansi.Strip(string(out)), "Welcome!")
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	assert.Equal(t, runner.Success, s.runner.Snapshot().Outcome)
	assert.Len(t, final.LastReport().Steps, 4)
}
