package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/oddear/internal/challenge"
	"github.com/zjrosen/oddear/internal/log"
	"github.com/zjrosen/oddear/internal/sound"
)

// Kind selects where clips come from.
type Kind string

const (
	KindDemo Kind = "demo"
	KindDir  Kind = "dir"
	KindHTTP Kind = "http"
	KindS3   Kind = "s3"
)

// Options describe a sound pack location.
type Options struct {
	Kind     Kind
	Dir      string
	BaseURL  string
	S3       S3Config
	CacheTTL time.Duration
	// Watch invalidates cached clips when files under Dir change.
	Watch bool
}

// Pack is an opened sound pack: a cached source plus its optional watcher.
type Pack struct {
	Kind    Kind
	Source  Source
	Cache   *CachedSource
	watcher *Watcher
}

// Open builds the source described by opts.
func Open(opts Options) (*Pack, error) {
	var (
		base    Source
		watchOn string
	)

	switch opts.Kind {
	case KindDemo, "":
		base = NewFSSource(sound.DemoFS())
		opts.Kind = KindDemo
	case KindDir:
		src, err := NewDirSource(opts.Dir)
		if err != nil {
			return nil, err
		}
		base = src
		if opts.Watch {
			watchOn = src.Root()
		}
	case KindHTTP:
		src, err := NewHTTPSource(opts.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		base = src
	case KindS3:
		src, err := NewS3Source(opts.S3)
		if err != nil {
			return nil, err
		}
		base = src
	default:
		return nil, fmt.Errorf("unknown sound source %q (valid: demo, dir, http, s3)", opts.Kind)
	}

	cached := NewCachedSource(base, opts.CacheTTL)
	p := &Pack{Kind: opts.Kind, Source: cached, Cache: cached}

	if watchOn != "" {
		w, err := NewWatcher(watchOn, cached, WithOnChange(func(clip string) {
			log.Info(log.CatAssets, "Sound file changed, dropped from cache", "clip", clip)
		}))
		if err != nil {
			// Playback still works without invalidation.
			log.ErrorErr(log.CatAssets, "Failed to watch sound directory", err, "dir", watchOn)
		} else {
			p.watcher = w
		}
	}

	log.Info(log.CatAssets, "Opened sound pack", "kind", string(opts.Kind), "cache_ttl", opts.CacheTTL.String())
	return p, nil
}

// Categories loads the pack's manifest.
func (p *Pack) Categories(ctx context.Context) (challenge.Categories, error) {
	return FetchManifest(ctx, p.Source)
}

// Watching reports whether a directory watcher is active.
func (p *Pack) Watching() bool {
	return p.watcher != nil
}

// Close stops the watcher, if any.
func (p *Pack) Close() error {
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}
