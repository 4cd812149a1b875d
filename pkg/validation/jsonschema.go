package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

// DraftMetaSchemaURI identifies the JSON Schema draft-07 meta-schema. It is
// bundled with the validation engine, so compiling it never touches the
// network.
const DraftMetaSchemaURI = "http://json-schema.org/draft-07/schema"

const resourcePrefix = "mem://formstudio/"

// ResourceURI returns the in-memory URI a schema named name is compiled
// under. Names that already carry a scheme are returned unchanged.
func ResourceURI(name string) string {
	if strings.Contains(name, "://") {
		return name
	}
	return resourcePrefix + strings.TrimPrefix(name, "/")
}

// Option customises validator compilation.
type Option func(*options)

type options struct {
	locale language.Tag
}

// WithLocale selects the locale used to format validation messages.
func WithLocale(locale string) Option {
	return func(o *options) {
		trimmed := strings.TrimSpace(locale)
		if trimmed == "" {
			return
		}
		tag, err := language.Parse(trimmed)
		if err != nil {
			return
		}
		o.locale = tag
	}
}

// Validator checks JSON documents against one compiled schema.
type Validator struct {
	uri     string
	schema  *jsonschema.Schema
	printer *message.Printer
}

// Compile builds a validator for the schema document registered under name
// (see ResourceURI). Schemas without a $schema keyword are treated as
// draft-07.
func Compile(name string, doc jsonvalue.Value, opts ...Option) (*Validator, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("validation: schema name is required")
	}
	if !doc.Defined() {
		return nil, fmt.Errorf("validation: schema %q is undefined", name)
	}

	uri := ResourceURI(name)
	compiler := newCompiler()
	if err := compiler.AddResource(uri, doc.Interface()); err != nil {
		return nil, fmt.Errorf("validation: add schema %q: %w", name, err)
	}
	schema, err := compiler.Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema %q: %w", name, err)
	}
	return newValidator(uri, schema, opts), nil
}

// CompileMeta builds a validator for a bundled meta-schema such as
// DraftMetaSchemaURI.
func CompileMeta(uri string, opts ...Option) (*Validator, error) {
	schema, err := newCompiler().Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("validation: compile meta-schema %q: %w", uri, err)
	}
	return newValidator(uri, schema, opts), nil
}

func newCompiler() *jsonschema.Compiler {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	return compiler
}

func newValidator(uri string, schema *jsonschema.Schema, opts []Option) *Validator {
	cfg := options{locale: language.English}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Validator{
		uri:     uri,
		schema:  schema,
		printer: message.NewPrinter(cfg.locale),
	}
}

// URI returns the resource identifier the schema was compiled under.
func (v *Validator) URI() string {
	if v == nil {
		return ""
	}
	return v.uri
}

// Validate checks value and returns the failing rules. Undefined documents
// have nothing to validate.
func (v *Validator) Validate(value jsonvalue.Value) ErrorSet {
	if v == nil || v.schema == nil || !value.Defined() {
		return nil
	}
	err := v.schema.Validate(value.Interface())
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return ErrorSet{{Message: strings.TrimSpace(err.Error())}}
	}

	var issues ErrorSet
	collectIssues(verr, v.printer, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return issues
}

func collectIssues(verr *jsonschema.ValidationError, printer *message.Printer, out *ErrorSet) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			collectIssues(cause, printer, out)
		}
		return
	}

	pointer := instancePointer(verr.InstanceLocation)
	field := fieldPath(verr.InstanceLocation)
	if required, ok := verr.ErrorKind.(*kind.Required); ok && len(required.Missing) > 0 {
		field = joinField(field, required.Missing[0])
	}

	*out = append(*out, Issue{
		Path:    pointer,
		Field:   field,
		Message: verr.ErrorKind.LocalizedString(printer),
		Keyword: strings.Join(verr.ErrorKind.KeywordPath(), "/"),
	})
}

func instancePointer(location []string) string {
	if len(location) == 0 {
		return ""
	}
	escaped := make([]string, len(location))
	for i, segment := range location {
		segment = strings.ReplaceAll(segment, "~", "~0")
		escaped[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}

func fieldPath(location []string) string {
	return strings.Join(location, ".")
}

func joinField(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
