// Package assets retrieves the raw bytes of sound clips.
//
// A clip identifier is resolved by a Source: a directory (or embedded pack),
// an HTTP base URL, or an S3 bucket. Retrieval failures wrap ErrFetch so the
// runner can tell "could not retrieve" apart from "could not decode".
package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrFetch is matched by every retrieval failure.
var ErrFetch = errors.New("could not retrieve clip")

// Source fetches the bytes of a clip by identifier.
type Source interface {
	Fetch(ctx context.Context, clip string) ([]byte, error)
}

// FetchError describes a clip that could not be retrieved.
type FetchError struct {
	Clip string
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Clip, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports FetchError as ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// maxClipSize bounds how many bytes a single clip may occupy.
const maxClipSize = 16 << 20

// clipKey normalizes a clip identifier into a clean relative slash path.
// "/sounds/bird1.wav", "sounds/bird1.wav" and "./sounds/bird1.wav" address
// the same object.
func clipKey(clip string) string {
	key := strings.TrimLeft(strings.TrimSpace(clip), "/")
	if key == "" {
		return ""
	}
	return strings.TrimLeft(path.Clean(key), "/")
}
