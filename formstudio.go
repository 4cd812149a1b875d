package formstudio

import (
	"context"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/playground"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/state"
)

// Playground aliases playground.Playground so callers can hold the engine
// through the root package.
type Playground = playground.Playground

// Option configures a Playground.
type Option = playground.Option

// Sources names where examples are loaded from.
type Sources = playground.Sources

// Example is one catalog entry.
type Example = catalog.Example

// FormState is the observable state the form renderer consumes.
type FormState = state.FormState

// Settings are the process-wide form settings.
type Settings = state.Settings

// Kind identifies a buffer of an example.
type Kind = resource.Kind

// Buffer kinds.
const (
	KindSchema   = resource.KindSchema
	KindUISchema = resource.KindUISchema
	KindData     = resource.KindData
	KindI18n     = resource.KindI18n
)

// New builds a playground over the embedded example catalog unless
// playground.WithCatalog is passed.
func New(options ...Option) (*Playground, error) {
	return playground.New(options...)
}

// Open loads the catalog described by src and builds a playground over it.
// Options may not replace the loaded catalog.
func Open(ctx context.Context, src Sources, options ...Option) (*Playground, error) {
	cat, err := playground.LoadCatalog(ctx, src)
	if err != nil {
		return nil, err
	}
	return playground.New(append(options, playground.WithCatalog(cat))...)
}

// URI returns the buffer URI of kind for an example.
func URI(example string, kind Kind) string {
	return resource.URI(example, kind)
}
