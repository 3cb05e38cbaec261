package sound

import (
	"context"
	"sync"
	"time"
)

// Headless is an Output that decodes normally but only simulates playback by
// waiting for each clip's duration. Used for --silent and in tests.
type Headless struct {
	mu     sync.Mutex
	played []Played
	tones  []*HeadlessTone
	// Scale multiplies every simulated wait; 0 means real time.
	Scale float64
}

// Played records one simulated playback.
type Played struct {
	Format   Format
	Duration time.Duration
	Speed    float64
}

var _ Output = (*Headless)(nil)

// NewHeadless returns a Headless output waiting in real time.
func NewHeadless() *Headless {
	return &Headless{}
}

// Decode implements Output.
func (h *Headless) Decode(_ context.Context, data []byte) (Buffer, error) {
	clip, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// Play implements Output.
func (h *Headless) Play(ctx context.Context, buf Buffer, speed float64) error {
	wait := effectiveDuration(buf, speed)
	if h.Scale > 0 {
		wait = time.Duration(float64(wait) * h.Scale)
	}

	h.mu.Lock()
	h.played = append(h.played, Played{Format: buf.Format(), Duration: buf.Duration(), Speed: speed})
	h.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tone implements Output.
func (h *Headless) Tone(frequency, gain float64) Tone {
	t := &HeadlessTone{Frequency: frequency, Gain: gain}
	h.mu.Lock()
	h.tones = append(h.tones, t)
	h.mu.Unlock()
	return t
}

// PlayedClips returns every simulated playback so far.
func (h *Headless) PlayedClips() []Played {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Played(nil), h.played...)
}

// Tones returns every tone created so far.
func (h *Headless) Tones() []*HeadlessTone {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*HeadlessTone(nil), h.tones...)
}

// Close implements io.Closer for symmetry with Device.
func (h *Headless) Close() error { return nil }

// HeadlessTone records its start/stop lifecycle.
type HeadlessTone struct {
	Frequency float64
	Gain      float64

	mu      sync.Mutex
	running bool
	starts  int
	stops   int
}

// Start implements Tone.
func (t *HeadlessTone) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.running = true
		t.starts++
	}
	return nil
}

// Stop implements Tone.
func (t *HeadlessTone) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.running = false
		t.stops++
	}
	return nil
}

// Running reports whether the tone is currently started.
func (t *HeadlessTone) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Cycles returns how many times the tone was started and stopped.
func (t *HeadlessTone) Cycles() (starts, stops int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.starts, t.stops
}
