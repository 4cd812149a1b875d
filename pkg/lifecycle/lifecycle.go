// Package lifecycle switches the active example. Selecting an example
// recreates its text buffers with fresh content and replaces the form state
// with one derived from the example and the process-wide settings (locale,
// renderers, read-only flag, validation mode). Changes that actions made to
// the previous state never reach the next one.
package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/textmodel"
)

// ErrUnknownExample is returned when selecting a name the catalog lacks.
var ErrUnknownExample = errors.New("lifecycle: unknown example")

// Dependencies are the collaborators of a Controller. Settings seed every
// derived state.
type Dependencies struct {
	Catalog  *catalog.Catalog
	Cache    *textmodel.Cache
	Store    *state.Store
	Settings state.Settings
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormOnly starts the controller in form-only mode, where no buffers are
// created.
func WithFormOnly(on bool) Option {
	return func(c *Controller) {
		c.formOnly = on
	}
}

// Controller owns the active example selection.
type Controller struct {
	deps   Dependencies
	logger *slog.Logger

	mu       sync.Mutex
	active   string
	formOnly bool
	settings state.Settings
}

// New constructs a Controller. No example is active until Select.
func New(deps Dependencies, opts ...Option) (*Controller, error) {
	switch {
	case deps.Catalog == nil:
		return nil, errors.New("lifecycle: catalog is required")
	case deps.Cache == nil:
		return nil, errors.New("lifecycle: text model cache is required")
	case deps.Store == nil:
		return nil, errors.New("lifecycle: state store is required")
	}
	c := &Controller{
		deps:     deps,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		settings: deps.Settings.Clone(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Select makes name the active example. Unknown names change nothing.
func (c *Controller) Select(name string) error {
	example, ok := c.deps.Catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExample, name)
	}

	c.mu.Lock()
	previous := c.active
	c.active = example.Name
	formOnly := c.formOnly
	settings := c.settings.Clone()
	c.mu.Unlock()

	if previous != "" {
		c.deps.Cache.DisposeExample(previous)
	}
	if !formOnly {
		c.recreateBuffers(example)
	}

	c.deps.Store.Replace(state.Derive(example, settings))
	c.deps.Store.SetErrors(nil)

	c.logger.Debug("example selected", "example", example.Name, "previous", previous, "formOnly", formOnly)
	return nil
}

// SetSettings replaces the process-wide settings. The active state takes
// them over at once and every later selection derives from them.
func (c *Controller) SetSettings(settings state.Settings) {
	c.mu.Lock()
	c.settings = settings.Clone()
	active := c.active
	c.mu.Unlock()

	if active != "" {
		c.deps.Store.Apply(state.ApplySettings(settings))
	}
	c.logger.Debug("settings replaced", "example", active)
}

// Settings returns the process-wide settings.
func (c *Controller) Settings() state.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// SetFormOnly toggles form-only mode. Leaving it recreates the buffers of the
// active example without touching the form state.
func (c *Controller) SetFormOnly(on bool) {
	c.mu.Lock()
	was := c.formOnly
	c.formOnly = on
	active := c.active
	c.mu.Unlock()

	if !was || on || active == "" {
		return
	}
	example, ok := c.deps.Catalog.Lookup(active)
	if !ok {
		return
	}
	c.recreateBuffers(example)
	c.logger.Debug("buffers restored", "example", active)
}

// Active returns the name of the active example.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// FormOnly reports whether form-only mode is on.
func (c *Controller) FormOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formOnly
}

// Kinds returns the buffer kinds an example gets. The i18n buffer exists
// only when the example declares a bundle.
func Kinds(example catalog.Example) []resource.Kind {
	kinds := []resource.Kind{resource.KindSchema, resource.KindUISchema, resource.KindData}
	if example.HasI18n() {
		kinds = append(kinds, resource.KindI18n)
	}
	return kinds
}

func (c *Controller) recreateBuffers(example catalog.Example) {
	for _, kind := range Kinds(example) {
		uri := resource.URI(example.Name, kind)
		c.deps.Cache.Recreate(uri, jsonvalue.Pretty(example.Document(kind)))
	}
}
