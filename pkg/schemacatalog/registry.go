package schemacatalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

//go:embed uischema.schema.json
var uiSchemaMeta string

// Association URIs of the shared meta-schemas.
const (
	UISchemaMetaURI = "mem://formstudio/meta/uischema.json"
	DraftMetaURI    = validation.DraftMetaSchemaURI
)

// DataURI returns the association URI of the data validator for an example.
func DataURI(exampleName string) string {
	return validation.ResourceURI("data/" + exampleName + ".json")
}

// UISchemaMeta returns the bundled UI schema meta-schema.
func UISchemaMeta() jsonvalue.Value {
	value, err := jsonvalue.Parse(uiSchemaMeta)
	if err != nil {
		return jsonvalue.Undefined()
	}
	return value
}

// Association binds file name patterns to a schema. Schema is undefined for
// meta-schemas bundled with the validation engine.
type Association struct {
	URI       string          `json:"uri"`
	FileMatch []string        `json:"fileMatch"`
	Schema    jsonvalue.Value `json:"schema,omitempty"`
}

func (a Association) clone() Association {
	out := a
	out.FileMatch = append([]string(nil), a.FileMatch...)
	out.Schema = a.Schema.Clone()
	return out
}

func (a Association) equal(other Association) bool {
	if a.URI != other.URI || len(a.FileMatch) != len(other.FileMatch) {
		return false
	}
	for i := range a.FileMatch {
		if a.FileMatch[i] != other.FileMatch[i] {
			return false
		}
	}
	return a.Schema.Equal(other.Schema)
}

// Matches reports whether fileURI matches one of the association patterns.
// Patterns are matched against the base name of the URI.
func (a Association) Matches(fileURI string) bool {
	base := path.Base(fileURI)
	for _, pattern := range a.FileMatch {
		if pattern == base || pattern == fileURI {
			return true
		}
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func (a Association) exact(fileURI string) bool {
	base := path.Base(fileURI)
	for _, pattern := range a.FileMatch {
		if pattern == base || pattern == fileURI {
			return true
		}
	}
	return false
}

type entry struct {
	association Association
	validator   *validation.Validator
	compileErr  error
}

// Option customises a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLocale selects the locale of validation messages.
func WithLocale(locale string) Option {
	return func(r *Registry) {
		r.locale = strings.TrimSpace(locale)
	}
}

// Registry is the association store. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	revision uint64

	logger *slog.Logger
	locale string
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// RegisterAll installs the meta-schema associations and one data
// association per example that declares a schema. Calling it again with the
// same examples leaves the registry unchanged.
func (r *Registry) RegisterAll(examples []catalog.Example) error {
	var errs []error
	for _, example := range examples {
		if !example.Schema.Defined() {
			continue
		}
		errs = append(errs,
			r.Register(Association{URI: UISchemaMetaURI, FileMatch: []string{resource.UISchemaGlob}, Schema: UISchemaMeta()}),
			r.Register(Association{URI: DraftMetaURI, FileMatch: []string{resource.SchemaGlob}}),
			r.RegisterData(example, example.Schema),
		)
	}
	return errors.Join(errs...)
}

// RegisterData binds schema, titled with the example label, to exactly the
// example's data URI.
func (r *Registry) RegisterData(example catalog.Example, schema jsonvalue.Value) error {
	if strings.TrimSpace(example.Name) == "" {
		return errors.New("schemacatalog: example name is required")
	}
	return r.Register(Association{
		URI:       DataURI(example.Name),
		FileMatch: []string{resource.URI(example.Name, resource.KindData)},
		Schema:    withTitle(schema, example.Title()),
	})
}

// Register compiles and stores an association, replacing any previous one
// with the same URI. Compile failures are kept and reported by Diagnose.
func (r *Registry) Register(assoc Association) error {
	if strings.TrimSpace(assoc.URI) == "" {
		return errors.New("schemacatalog: association uri is required")
	}
	if len(assoc.FileMatch) == 0 {
		return fmt.Errorf("schemacatalog: association %q has no file patterns", assoc.URI)
	}
	assoc = assoc.clone()

	r.mu.Lock()
	if current, exists := r.entries[assoc.URI]; exists && current.association.equal(assoc) {
		r.mu.Unlock()
		return nil
	}
	next := &entry{association: assoc}
	next.validator, next.compileErr = r.compile(assoc)
	r.entries[assoc.URI] = next
	r.revision++
	r.mu.Unlock()

	if next.compileErr != nil {
		r.logger.Warn("schema association does not compile", "uri", assoc.URI, "error", next.compileErr)
	}

	r.logger.Debug("schema association registered", "uri", assoc.URI, "fileMatch", assoc.FileMatch)
	return nil
}

func (r *Registry) compile(assoc Association) (*validation.Validator, error) {
	opts := []validation.Option{validation.WithLocale(r.locale)}
	if !assoc.Schema.Defined() {
		return validation.CompileMeta(assoc.URI, opts...)
	}
	return validation.Compile(assoc.URI, assoc.Schema, opts...)
}

// Associations returns the editor-boot payload sorted by URI.
func (r *Registry) Associations() []Association {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Association, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.association.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Lookup returns the association registered under uri.
func (r *Registry) Lookup(uri string) (Association, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[uri]
	if !ok {
		return Association{}, false
	}
	return e.association.clone(), true
}

// Validator returns the compiled validator for a file URI. Exact file
// patterns win over globs.
func (r *Registry) Validator(fileURI string) (*validation.Validator, bool) {
	for _, e := range r.matching(fileURI) {
		if e.validator != nil {
			return e.validator, true
		}
	}
	return nil, false
}

// Revision increases whenever an association is added or changed.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// matching returns the entries whose patterns match fileURI, exact matches
// first, then by URI.
func (r *Registry) matching(fileURI string) []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entry
	for _, e := range r.entries {
		if e.association.Matches(fileURI) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].association.exact(fileURI), out[j].association.exact(fileURI)
		if ei != ej {
			return ei
		}
		return out[i].association.URI < out[j].association.URI
	})
	return out
}

func withTitle(schema jsonvalue.Value, title string) jsonvalue.Value {
	cloned := schema.Clone()
	obj, ok := cloned.Object()
	if !ok || strings.TrimSpace(title) == "" {
		return cloned
	}
	obj["title"] = title
	return cloned
}
