package formstudio

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/preview"
)

// EmbeddedTemplates exposes the built-in preview templates so callers can
// reuse or extend them without importing the preview package directly.
func EmbeddedTemplates() fs.FS {
	return preview.TemplatesFS()
}

// EmbeddedExamples exposes the catalog files compiled into the module.
//
// Typical use, layering local examples over the built-in ones:
//
//	local, _ := formstudio.LoadExamples(os.DirFS("./examples"))
//	builtin, _ := formstudio.LoadExamples(formstudio.EmbeddedExamples())
//	merged, _ := builtin.Merge(local)
func EmbeddedExamples() fs.FS {
	return catalog.EmbeddedFS()
}

// LoadExamples reads every JSON and YAML catalog file in fsys.
func LoadExamples(fsys fs.FS) (*catalog.Catalog, error) {
	return catalog.LoadFS(fsys)
}

// ExamplesFromOpenAPI turns the component schemas of an OpenAPI 3 document
// into examples.
func ExamplesFromOpenAPI(ctx context.Context, data []byte) ([]Example, error) {
	return catalog.FromOpenAPI(ctx, data)
}
