package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/oddear/internal/challenge"
)

// ManifestName is the manifest file looked up at the root of a sound pack.
const ManifestName = "categories.yaml"

// Manifest is the on-disk description of a sound pack.
type Manifest struct {
	Categories map[string][]string `yaml:"categories"`
}

// ParseManifest decodes a manifest and validates its categories.
func ParseManifest(data []byte) (challenge.Categories, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse manifest: empty document")
		}
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	cats := challenge.Categories(m.Categories)
	if err := cats.Validate(); err != nil {
		return nil, err
	}
	return cats, nil
}

// LoadManifest reads ManifestName from the root of fsys.
func LoadManifest(fsys fs.FS) (challenge.Categories, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// FetchManifest retrieves and parses the manifest through any Source, so a
// pack hosted over HTTP or in a bucket can describe itself.
func FetchManifest(ctx context.Context, src Source) (challenge.Categories, error) {
	data, err := src.Fetch(ctx, ManifestName)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}
