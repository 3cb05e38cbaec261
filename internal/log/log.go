// Package log provides category-based structured logging for oddear.
//
// The terminal belongs to the TUI, so log output goes to a file (or is
// discarded) and a small ring buffer keeps recent lines for diagnostics.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatConfig    Category = "config"
	CatAudio     Category = "audio"
	CatAssets    Category = "assets"
	CatChallenge Category = "challenge"
	CatUI        Category = "ui"
	CatTrace     Category = "trace"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	closer io.Closer
	recent = newRing(200)
)

// Init opens path for appending and routes all log output there.
// An empty path keeps logging disabled. The returned func closes the file.
func Init(path string, debugEnabled bool) (func() error, error) {
	if path == "" {
		// Nothing on disk, but recent lines stay available for error screens.
		SetOutput(io.Discard, debugEnabled)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from the --log flag
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	SetOutput(f, debugEnabled)

	mu.Lock()
	closer = f
	mu.Unlock()

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if closer == nil {
			return nil
		}
		err := closer.Close()
		closer = nil
		logger = slog.New(slog.NewTextHandler(recent, nil))
		return err
	}, nil
}

// SetOutput routes log output to w. Used by Init and by tests.
func SetOutput(w io.Writer, debugEnabled bool) {
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(io.MultiWriter(w, recent), &slog.HandlerOptions{Level: level})

	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func emit(level slog.Level, cat Category, msg string, args ...any) {
	l := current()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, msg, append([]any{"cat", string(cat)}, args...)...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) { emit(slog.LevelDebug, cat, msg, args...) }

// Info logs at info level.
func Info(cat Category, msg string, args ...any) { emit(slog.LevelInfo, cat, msg, args...) }

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) { emit(slog.LevelWarn, cat, msg, args...) }

// Error logs at error level.
func Error(cat Category, msg string, args ...any) { emit(slog.LevelError, cat, msg, args...) }

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	emit(slog.LevelError, cat, msg, append([]any{"error", err}, args...)...)
}

// SafeGo runs fn in a goroutine, logging instead of crashing on panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				Error(CatUI, "Recovered panic in goroutine", "goroutine", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}

// Recent returns the most recent log lines, oldest first.
func Recent() []string {
	return recent.lines()
}

// RecentProblems returns up to n of the most recent warning and error
// lines, oldest first.
func RecentProblems(n int) []string {
	var out []string
	for _, line := range recent.lines() {
		if strings.Contains(line, "level=WARN") || strings.Contains(line, "level=ERROR") {
			out = append(out, line)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
