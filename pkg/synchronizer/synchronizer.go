// Package synchronizer moves documents between the editable text buffers and
// the form state. Buffers only flow into the state on an explicit Apply; the
// state flows back into buffers on Reload and whenever the form renderer
// changes the data.
package synchronizer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/notify"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/schemacatalog"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/textmodel"
)

// ParseError reports buffer text that could not be applied.
type ParseError struct {
	Kind resource.Kind
	URI  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("synchronizer: parse %s buffer %s: %v", e.Kind, e.URI, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Dependencies are the collaborators a Synchronizer works against. All are
// required.
type Dependencies struct {
	Catalog  *catalog.Catalog
	Cache    *textmodel.Cache
	Store    *state.Store
	Registry *schemacatalog.Registry
	Notifier *notify.Notifier
}

func (d Dependencies) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("synchronizer: catalog is required")
	case d.Cache == nil:
		return errors.New("synchronizer: text model cache is required")
	case d.Store == nil:
		return errors.New("synchronizer: state store is required")
	case d.Registry == nil:
		return errors.New("synchronizer: schema registry is required")
	case d.Notifier == nil:
		return errors.New("synchronizer: notifier is required")
	}
	return nil
}

// Option customises a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the synchronizer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Synchronizer implements apply, reload and form-driven sync.
type Synchronizer struct {
	deps   Dependencies
	logger *slog.Logger
}

// New validates deps and constructs a Synchronizer.
func New(deps Dependencies, opts ...Option) (*Synchronizer, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	s := &Synchronizer{
		deps:   deps,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Apply parses the buffer of kind for the current example and writes the
// result into the form state. A missing buffer is a no-op. On parse failure
// the state is left untouched, an error notification is posted and a
// *ParseError is returned.
func (s *Synchronizer) Apply(kind resource.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("synchronizer: unknown kind %q", kind)
	}
	current := s.deps.Store.Snapshot()
	uri := resource.URI(current.Example, kind)
	model, ok := s.deps.Cache.Get(uri)
	if !ok {
		s.logger.Debug("apply skipped, no buffer", "uri", uri)
		return nil
	}

	value, err := parse(kind, model.Value())
	if err != nil {
		s.deps.Notifier.Error(fmt.Sprintf("Could not apply %s: %v", kind.Title(), err))
		s.logger.Debug("apply failed", "uri", uri, "error", err)
		return &ParseError{Kind: kind, URI: uri, Err: err}
	}

	s.deps.Store.Apply(patchFor(kind, value))
	if kind == resource.KindSchema {
		example, ok := s.deps.Catalog.Lookup(current.Example)
		if !ok {
			example = catalog.Example{Name: current.Example}
		}
		if err := s.deps.Registry.RegisterData(example, value); err != nil {
			s.logger.Warn("data validator not registered", "example", current.Example, "error", err)
		}
	}
	s.deps.Notifier.Success(fmt.Sprintf("%s applied", kind.Title()))
	s.logger.Debug("buffer applied", "uri", uri, "version", model.Version())
	return nil
}

// Reload overwrites the buffer of kind with the catalog original of the
// current example. A missing example or buffer is a silent no-op. The form
// state is not touched.
func (s *Synchronizer) Reload(kind resource.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("synchronizer: unknown kind %q", kind)
	}
	current := s.deps.Store.Snapshot()
	example, ok := s.deps.Catalog.Lookup(current.Example)
	if !ok {
		return nil
	}
	uri := resource.URI(example.Name, kind)
	if _, ok := s.deps.Cache.Get(uri); !ok {
		return nil
	}

	s.deps.Cache.SetValue(uri, jsonvalue.Pretty(example.Document(kind)))
	s.deps.Notifier.Info(fmt.Sprintf("%s reloaded", kind.Title()))
	s.logger.Debug("buffer reloaded", "uri", uri)
	return nil
}

// SyncFromForm records a renderer change: the data field is replaced, the
// error set is swapped wholesale and the data buffer is overwritten with the
// new document. Unapplied edits in the data buffer are discarded. No
// notification is posted.
func (s *Synchronizer) SyncFromForm(event form.ChangeEvent) {
	next := s.deps.Store.Apply(state.SetData(event.Data))
	s.deps.Store.SetErrors(event.Errors)
	uri := resource.URI(next.Example, resource.KindData)
	s.deps.Cache.SetValue(uri, jsonvalue.Pretty(event.Data))
}

// parse is strict for schemas and lenient (blank is undefined) for data and
// translations.
func parse(kind resource.Kind, text string) (jsonvalue.Value, error) {
	switch kind {
	case resource.KindData, resource.KindI18n:
		return jsonvalue.ParseOptional(text)
	default:
		return jsonvalue.Parse(text)
	}
}

func patchFor(kind resource.Kind, value jsonvalue.Value) state.Patch {
	switch kind {
	case resource.KindSchema:
		return state.SetSchema(value)
	case resource.KindUISchema:
		return state.SetUISchema(value)
	case resource.KindData:
		return state.SetData(value)
	default:
		return state.SetTranslations(value)
	}
}
