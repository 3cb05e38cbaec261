package sound

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zjrosen/oddear/internal/log"
)

// toneLoopLength is how much tone is rendered per player invocation; the
// device replays it until stopped.
const toneLoopLength = 2 * time.Second

// deviceTone loops a synthesized sine through the device's player.
type deviceTone struct {
	device    *Device
	frequency float64
	gain      float64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start renders the tone and begins looping it in the background.
func (t *deviceTone) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return nil // Already running
	}

	file := filepath.Join(t.device.dir, fmt.Sprintf("tone-%g-%g.wav", t.frequency, t.gain))
	if _, err := os.Stat(file); err != nil {
		if err := os.WriteFile(file, synthesizeTone(t.frequency, t.gain, toneLoopLength), 0600); err != nil {
			return fmt.Errorf("writing tone: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	log.SafeGo("sound.toneLoop", func() {
		defer close(done)
		for ctx.Err() == nil {
			if err := t.device.run(ctx, t.device.player.args(file, 1)); err != nil {
				if ctx.Err() == nil {
					log.ErrorErr(log.CatAudio, "Masking tone stopped unexpectedly", err)
				}
				return
			}
		}
	})
	return nil
}

// Stop cancels the loop and waits for the player process to exit.
func (t *deviceTone) Stop() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
