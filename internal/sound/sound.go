// Package sound provides the audio capability the challenge runner consumes.
// It supports cross-platform playback via OS-native audio commands, plus a
// headless output that simulates playback timing.
package sound

import (
	"context"
	"fmt"
	"time"
)

// Format is a recognized audio container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatOGG  Format = "ogg"
	FormatFLAC Format = "flac"
)

// Extension returns the file extension players expect for the format.
func (f Format) Extension() string {
	return "." + string(f)
}

// Buffer is decoded audio ready for playback.
type Buffer interface {
	Format() Format
	// Duration is the natural playback length, or 0 when the container does
	// not expose it cheaply (mp3, ogg, flac).
	Duration() time.Duration
}

// Tone is a continuous generated tone with an explicit lifetime.
type Tone interface {
	Start() error
	// Stop halts the tone. Stopping a tone that is not running is a no-op.
	Stop() error
}

// Output decodes and plays audio. Play returns once playback has completed.
type Output interface {
	// Decode turns fetched bytes into a playable buffer. Bytes that are not
	// audio yield a *DecodeError.
	Decode(ctx context.Context, data []byte) (Buffer, error)
	// Play plays buf at the given speed factor (1.0 is natural speed) and
	// blocks until it finishes or ctx is done.
	Play(ctx context.Context, buf Buffer, speed float64) error
	// Tone creates a tone at frequency Hz with the given gain in [0,1].
	Tone(frequency, gain float64) Tone
}

// DecodeError reports bytes that were retrieved but are not playable audio.
type DecodeError struct {
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode audio: %s", e.Reason)
}

// nominalDuration stands in for clips whose length is not known up front.
const nominalDuration = time.Second

// effectiveDuration scales a buffer's duration by the playback speed.
func effectiveDuration(buf Buffer, speed float64) time.Duration {
	d := buf.Duration()
	if d <= 0 {
		d = nominalDuration
	}
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(d) / speed)
}
