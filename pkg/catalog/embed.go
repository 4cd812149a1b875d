package catalog

import (
	"embed"
	"io/fs"
)

//go:embed examples/*.yaml
var embeddedExamples embed.FS

// EmbeddedFS exposes the bundled example files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedExamples, "examples")
	if err != nil {
		return embeddedExamples
	}
	return sub
}

// Default loads the bundled example catalog.
func Default() (*Catalog, error) {
	return LoadFS(EmbeddedFS())
}
