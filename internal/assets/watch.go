package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/oddear/internal/log"
)

// Invalidator drops cached clips. CachedSource satisfies it.
type Invalidator interface {
	Invalidate(clip string)
}

// DefaultDebounce coalesces bursts of events from editors that write a
// file several times in quick succession.
const DefaultDebounce = 100 * time.Millisecond

// Watcher invalidates cached clips when files under a sound directory
// change on disk.
type Watcher struct {
	root     string
	target   Invalidator
	debounce time.Duration
	fsw      *fsnotify.Watcher
	onChange func(clip string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	done      chan struct{}
	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnChange registers a callback invoked for every invalidated clip.
func WithOnChange(fn func(clip string)) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// NewWatcher starts watching root and every directory below it. Directories
// created later are picked up as they appear. Call Close to stop.
func NewWatcher(root string, target Invalidator, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addTree(fsw, root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		root:     root,
		target:   target,
		debounce: DefaultDebounce,
		fsw:      fsw,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	log.Info(log.CatAssets, "Watching sound directory", "root", root)
	log.SafeGo("assets.watcher", w.loop)
	return w, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
		<-w.done
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				log.ErrorErr(log.CatAssets, "Sound directory watch error", err)
				continue
			}
			// Events were dropped; nothing cached can be trusted.
			w.invalidateAll()
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(w.fsw, event.Name); err != nil {
				log.ErrorErr(log.CatAssets, "Failed to watch new sound directory", err, "dir", event.Name)
			}
			// Clips copied in with the directory were never cached.
			return
		}
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	clip := clipKey(filepath.ToSlash(rel))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[clip] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	clips := w.pending
	w.pending = make(map[string]struct{})
	w.timer = nil
	w.mu.Unlock()

	for clip := range clips {
		w.target.Invalidate(clip)
		if w.onChange != nil {
			w.onChange(clip)
		}
	}
}

func (w *Watcher) invalidateAll() {
	if f, ok := w.target.(interface{ Flush() }); ok {
		f.Flush()
		log.Warn(log.CatAssets, "Watch events overflowed, flushed clip cache")
	}
}

// addTree watches dir and every directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(p)
	})
}
