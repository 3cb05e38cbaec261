package sound

import (
	"embed"
	"io/fs"
)

// demoFiles contains the bundled demo sound pack: synthetic WAV clips and a
// categories.yaml manifest describing them.
//
//go:embed sounds/*.wav sounds/categories.yaml
var demoFiles embed.FS

// DemoFS returns the demo sound pack rooted at its manifest directory.
func DemoFS() fs.FS {
	sub, err := fs.Sub(demoFiles, "sounds")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "sounds" is constant.
		panic(err)
	}
	return sub
}
