package sound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zjrosen/oddear/internal/log"
)

// ErrDeviceClosed is returned by operations on a closed Device.
var ErrDeviceClosed = errors.New("audio device closed")

// DeviceConfig configures an OS-backed audio device.
type DeviceConfig struct {
	// Player forces a specific player command (e.g. "ffplay"). Empty picks
	// the first available one for the platform.
	Player string
	// TempDir is where clip files are staged. Empty uses the OS default.
	TempDir string
	// CacheSize bounds how many staged clip files are kept. Defaults to 32.
	CacheSize int
}

// Device plays audio through an OS-native command. It owns a staging
// directory and every child process it starts; Close releases both.
type Device struct {
	player player
	path   string
	dir    string
	files  *lru.Cache[string, string]

	mu      sync.Mutex
	running map[int]context.CancelFunc
	nextID  int
	closed  bool
}

var _ Output = (*Device)(nil)

// Open finds a player and prepares a staging directory.
func Open(cfg DeviceConfig) (*Device, error) {
	p, path, err := findPlayer(cfg.Player)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(cfg.TempDir, "oddear-audio-*")
	if err != nil {
		return nil, fmt.Errorf("creating audio staging dir: %w", err)
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = 32
	}
	files, err := lru.NewWithEvict(size, func(_ string, file string) {
		_ = os.Remove(file)
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("creating clip cache: %w", err)
	}

	log.Info(log.CatAudio, "Audio device opened", "player", p.name, "path", path, "dir", dir)

	return &Device{
		player:  p,
		path:    path,
		dir:     dir,
		files:   files,
		running: make(map[int]context.CancelFunc),
	}, nil
}

// PlayerName returns the command used for playback.
func (d *Device) PlayerName() string {
	return d.player.name
}

// Decode implements Output.
func (d *Device) Decode(_ context.Context, data []byte) (Buffer, error) {
	clip, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if !d.player.supports(clip.Format()) {
		return nil, &DecodeError{Reason: fmt.Sprintf("%s cannot play %s", d.player.name, clip.Format())}
	}
	return clip, nil
}

// Play implements Output.
func (d *Device) Play(ctx context.Context, buf Buffer, speed float64) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrDeviceClosed
	}

	clip, ok := buf.(*Clip)
	if !ok {
		return fmt.Errorf("audio device: unsupported buffer type %T", buf)
	}

	file, err := d.stage(clip)
	if err != nil {
		return err
	}
	return d.run(ctx, d.player.args(file, speed))
}

// Tone implements Output.
func (d *Device) Tone(frequency, gain float64) Tone {
	return &deviceTone{device: d, frequency: frequency, gain: gain}
}

// Close stops every running player process and removes staged files.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	cancels := make([]context.CancelFunc, 0, len(d.running))
	for _, cancel := range d.running {
		cancels = append(cancels, cancel)
	}
	d.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	d.files.Purge()

	log.Debug(log.CatAudio, "Audio device closed", "dir", d.dir)
	return os.RemoveAll(d.dir)
}

// stage writes clip to the staging directory once per distinct content.
func (d *Device) stage(clip *Clip) (string, error) {
	if file, ok := d.files.Get(clip.Digest()); ok {
		return file, nil
	}
	file := filepath.Join(d.dir, clip.Digest()+clip.Format().Extension())
	if err := os.WriteFile(file, clip.data, 0600); err != nil {
		return "", fmt.Errorf("staging clip: %w", err)
	}
	d.files.Add(clip.Digest(), file)
	return file, nil
}

// run executes the player and waits for it, tracking it so Close can stop it.
func (d *Device) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDeviceClosed
	}
	id := d.nextID
	d.nextID++
	d.running[id] = cancel
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.running, id)
		d.mu.Unlock()
	}()

	cmd := exec.CommandContext(ctx, d.path, args...) //nolint:gosec // G204: path resolved from the known player list
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", d.player.name, err)
	}
	return nil
}
