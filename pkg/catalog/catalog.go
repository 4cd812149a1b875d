package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/resource"
)

// ErrDuplicateExample is returned when two examples share a name.
var ErrDuplicateExample = errors.New("catalog: duplicate example")

// Action is a declarative button attached to an example. Command names a
// transform registered with the action dispatcher.
type Action struct {
	Label   string         `json:"label" yaml:"label"`
	Command string         `json:"command" yaml:"command"`
	Params  map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Example is one catalog entry. Undefined documents mean the example does not
// provide that artifact.
type Example struct {
	Name      string
	Label     string
	Schema    jsonvalue.Value
	UISchema  jsonvalue.Value
	Data      jsonvalue.Value
	I18n      jsonvalue.Value
	UISchemas map[string]jsonvalue.Value
	Actions   []Action
}

// Title returns the label, falling back to the name.
func (e Example) Title() string {
	if strings.TrimSpace(e.Label) != "" {
		return e.Label
	}
	return e.Name
}

// Document returns the example's document for kind.
func (e Example) Document(kind resource.Kind) jsonvalue.Value {
	switch kind {
	case resource.KindSchema:
		return e.Schema
	case resource.KindUISchema:
		return e.UISchema
	case resource.KindData:
		return e.Data
	case resource.KindI18n:
		return e.I18n
	default:
		return jsonvalue.Undefined()
	}
}

// HasI18n reports whether the example declares a translation bundle.
func (e Example) HasI18n() bool {
	return e.I18n.Defined()
}

// Clone returns a deep copy so callers cannot mutate catalog state.
func (e Example) Clone() Example {
	out := e
	out.Schema = e.Schema.Clone()
	out.UISchema = e.UISchema.Clone()
	out.Data = e.Data.Clone()
	out.I18n = e.I18n.Clone()
	out.UISchemas = CloneUISchemas(e.UISchemas)
	out.Actions = cloneActions(e.Actions)
	return out
}

// UISchemaNames lists the named alternative UI schemas in sorted order.
func (e Example) UISchemaNames() []string {
	names := make([]string, 0, len(e.UISchemas))
	for name := range e.UISchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloneUISchemas deep copies a named UI schema map.
func CloneUISchemas(src map[string]jsonvalue.Value) map[string]jsonvalue.Value {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]jsonvalue.Value, len(src))
	for name, value := range src {
		out[name] = value.Clone()
	}
	return out
}

func cloneActions(src []Action) []Action {
	if len(src) == 0 {
		return nil
	}
	out := make([]Action, len(src))
	for i, action := range src {
		out[i] = action.Clone()
	}
	return out
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	out := a
	if a.Params != nil {
		if cloned, ok := jsonvalue.Of(a.Params).Clone().Object(); ok {
			out.Params = cloned
		}
	}
	return out
}

// Catalog is an ordered, read-only set of examples keyed by name.
type Catalog struct {
	order    []string
	examples map[string]Example
}

// New builds a catalog preserving the order of examples. Names must be unique
// and non-empty.
func New(examples ...Example) (*Catalog, error) {
	c := &Catalog{examples: make(map[string]Example, len(examples))}
	for _, example := range examples {
		name := strings.TrimSpace(example.Name)
		if name == "" {
			return nil, errors.New("catalog: example name is required")
		}
		if _, exists := c.examples[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateExample, name)
		}
		example.Name = name
		c.order = append(c.order, name)
		c.examples[name] = example.Clone()
	}
	return c, nil
}

// Lookup returns a copy of the example registered under name.
func (c *Catalog) Lookup(name string) (Example, bool) {
	if c == nil {
		return Example{}, false
	}
	example, ok := c.examples[name]
	if !ok {
		return Example{}, false
	}
	return example.Clone(), true
}

// Examples returns copies of every example in catalog order.
func (c *Catalog) Examples() []Example {
	if c == nil {
		return nil
	}
	out := make([]Example, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.examples[name].Clone())
	}
	return out
}

// Names returns the example names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// First returns the first example, used as the initial selection.
func (c *Catalog) First() (Example, bool) {
	if c == nil || len(c.order) == 0 {
		return Example{}, false
	}
	return c.Lookup(c.order[0])
}

// Len reports the number of examples.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Merge returns a catalog holding c's examples followed by others'. Name
// clashes are errors.
func (c *Catalog) Merge(others ...*Catalog) (*Catalog, error) {
	all := c.Examples()
	for _, other := range others {
		all = append(all, other.Examples()...)
	}
	return New(all...)
}
