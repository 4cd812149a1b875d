package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/form"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText       = "text"
	WidgetPassword   = "password"
	WidgetMultiline  = "multiline"
	WidgetNumber     = "number"
	WidgetToggle     = "toggle"
	WidgetSelect     = "select"
	WidgetJSONEditor = "json-editor"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field form.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects the input widget of a field from an explicit hint or the
// registered matchers. Higher priority wins; ties fall back to registration
// order. Fields nothing matches get WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher under name. Among equal priorities the earlier
// registration wins.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for field. A widget named in the UI schema
// options wins over the matchers.
func (r *Registry) Resolve(field form.Field) string {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit
	}
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSelect, 90, func(field form.Field) bool {
		return len(field.Enum) > 0 && field.Type != "array" && field.Type != "object"
	})

	r.Register(WidgetToggle, 80, func(field form.Field) bool {
		return field.Type == "boolean"
	})

	r.Register(WidgetNumber, 70, func(field form.Field) bool {
		return field.Type == "integer" || field.Type == "number"
	})

	r.Register(WidgetJSONEditor, 60, func(field form.Field) bool {
		return field.Type == "array" || field.Type == "object"
	})

	r.Register(WidgetPassword, 50, func(field form.Field) bool {
		return strings.EqualFold(field.Format, "password")
	})

	r.Register(WidgetMultiline, 40, func(field form.Field) bool {
		if field.Multiline {
			return true
		}
		format := strings.ToLower(strings.TrimSpace(field.Format))
		return format == "json" || format == "yaml" || format == "markdown"
	})
}
