package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource fetches clips relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source resolving clips against baseURL.
// A nil client uses one with a 10 second timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid sound base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid sound base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{base: u, client: client}, nil
}

// URL returns the absolute URL a clip resolves to.
func (s *HTTPSource) URL(clip string) (string, error) {
	ref, err := url.Parse(clipKey(clip))
	if err != nil {
		return "", err
	}
	return s.base.ResolveReference(ref).String(), nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, clip string) ([]byte, error) {
	target, err := s.URL(clip)
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Clip: clip, Err: fmt.Errorf("HTTP error! Status: %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipSize+1))
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}
	if len(data) > maxClipSize {
		return nil, &FetchError{Clip: clip, Err: fmt.Errorf("clip exceeds %d bytes", maxClipSize)}
	}
	return data, nil
}
