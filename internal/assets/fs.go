package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FSSource reads clips from a filesystem: a sound directory on disk or the
// embedded demo pack.
type FSSource struct {
	fsys fs.FS
	// root is the on-disk directory, empty for non-disk filesystems.
	root string
}

var _ Source = (*FSSource)(nil)

// NewFSSource serves clips from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource serves clips from the directory dir.
func NewDirSource(dir string) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("sound directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sound directory: %s is not a directory", dir)
	}
	return &FSSource{fsys: os.DirFS(dir), root: dir}, nil
}

// Root returns the on-disk directory backing the source, if any.
func (s *FSSource) Root() string {
	return s.root
}

// FS returns the underlying filesystem.
func (s *FSSource) FS() fs.FS {
	return s.fsys
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, clip string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}

	key := clipKey(clip)
	if !fs.ValidPath(key) {
		return nil, &FetchError{Clip: clip, Err: fmt.Errorf("invalid clip path %q", clip)}
	}

	info, err := fs.Stat(s.fsys, key)
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}
	if info.IsDir() {
		return nil, &FetchError{Clip: clip, Err: errors.New("is a directory")}
	}
	if info.Size() > maxClipSize {
		return nil, &FetchError{Clip: clip, Err: fmt.Errorf("clip is %d bytes, limit %d", info.Size(), maxClipSize)}
	}

	data, err := fs.ReadFile(s.fsys, key)
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}
	return data, nil
}
