package form

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/visibility"
)

// Field is one input derived from the schema, laid out by the UI schema.
type Field struct {
	// Path is the dotted data path (e.g. "contact.email").
	Path        string
	Label       string
	Description string
	Type        string
	Format      string
	Enum        []string
	Required    bool
	Readonly    bool
	// Group is the label of the enclosing group or category, if any.
	Group string
	// Widget is the input widget named by the UI schema options, if any.
	Widget string
	// Multiline is set by the "multi" UI schema option.
	Multiline bool
}

// Fields lists the inputs of s in display order. Without a UI schema every
// schema property is shown, nested objects expanded in place. Elements hidden
// by a UI schema rule are left out; disabled ones become readonly. Malformed
// rules are ignored.
func Fields(s state.FormState) []Field {
	root, ok := s.Schema.Object()
	if !ok {
		return nil
	}
	b := &fieldBuilder{state: s, root: root, rules: visibility.NewEvaluator()}
	if ui, ok := s.UISchema.Object(); ok {
		b.element(ui, "", false)
	} else {
		b.properties(root, nil, "", false)
	}
	return b.fields
}

type fieldBuilder struct {
	state  state.FormState
	root   map[string]any
	rules  *visibility.Evaluator
	fields []Field
}

// outcome evaluates the rule of el, if any, against the form data.
func (b *fieldBuilder) outcome(el map[string]any) visibility.Outcome {
	visible := visibility.Outcome{Visible: true, Enabled: true}
	rule, ok, err := visibility.ParseRule(el)
	if err != nil || !ok {
		return visible
	}
	outcome, err := b.rules.Eval(rule, b.state.Data)
	if err != nil {
		return visible
	}
	return outcome
}

func (b *fieldBuilder) element(el map[string]any, group string, disabled bool) {
	outcome := b.outcome(el)
	if !outcome.Visible {
		return
	}
	disabled = disabled || !outcome.Enabled

	kind, _ := el["type"].(string)
	switch kind {
	case "Control":
		scope, _ := el["scope"].(string)
		names, node, parent := b.resolveScope(scope)
		if node == nil {
			return
		}
		options, _ := el["options"].(map[string]any)
		label, hasLabel := el["label"]
		field := b.field(names, node, parent, group)
		if hasLabel {
			switch typed := label.(type) {
			case string:
				field.Label = typed
			case bool:
				if !typed {
					field.Label = ""
				}
			}
		}
		if readonly, _ := options["readonly"].(bool); readonly || disabled {
			field.Readonly = true
		}
		field.Widget, _ = options["widget"].(string)
		field.Multiline, _ = options["multi"].(bool)
		if schemaType(node) == "object" {
			b.properties(node, names, field.Label, disabled)
			return
		}
		b.fields = append(b.fields, field)
	case "Label":
		return
	default:
		if kind == "Group" || kind == "Category" {
			if label, ok := el["label"].(string); ok && label != "" {
				group = label
			}
		}
		children, _ := el["elements"].([]any)
		for _, child := range children {
			if obj, ok := child.(map[string]any); ok {
				b.element(obj, group, disabled)
			}
		}
	}
}

func (b *fieldBuilder) properties(node map[string]any, prefix []string, group string, disabled bool) {
	props, _ := node["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		path := append(append([]string(nil), prefix...), name)
		field := b.field(path, child, node, group)
		if disabled {
			field.Readonly = true
		}
		if schemaType(child) == "object" {
			b.properties(child, path, field.Label, disabled)
			continue
		}
		b.fields = append(b.fields, field)
	}
}

func (b *fieldBuilder) field(names []string, node, parent map[string]any, group string) Field {
	path := strings.Join(names, ".")
	name := ""
	if len(names) > 0 {
		name = names[len(names)-1]
	}

	field := Field{
		Path:     path,
		Label:    b.label(path, name, node),
		Type:     schemaType(node),
		Readonly: b.state.Readonly,
		Group:    group,
	}
	field.Description, _ = node["description"].(string)
	field.Format, _ = node["format"].(string)
	if readOnly, _ := node["readOnly"].(bool); readOnly {
		field.Readonly = true
	}
	if values, ok := node["enum"].([]any); ok {
		for _, value := range values {
			field.Enum = append(field.Enum, fmt.Sprint(value))
		}
	}
	if required, ok := parent["required"].([]any); ok {
		for _, entry := range required {
			if entry == name {
				field.Required = true
			}
		}
	}
	return field
}

func (b *fieldBuilder) label(path, name string, node map[string]any) string {
	if text, ok := b.state.Translate(path + ".label"); ok {
		return text
	}
	if title, ok := node["title"].(string); ok && title != "" {
		return title
	}
	return Humanize(name)
}

// resolveScope walks "#/properties/a/properties/b" and returns the data path,
// the addressed schema and its parent object schema.
func (b *fieldBuilder) resolveScope(scope string) ([]string, map[string]any, map[string]any) {
	if !strings.HasPrefix(scope, "#") {
		return nil, nil, nil
	}
	segments := jsonvalue.SplitPointer(strings.TrimPrefix(scope, "#"))
	node, parent := b.root, map[string]any(nil)
	var names []string
	for i := 0; i < len(segments); i++ {
		if segments[i] != "properties" || i+1 >= len(segments) {
			return nil, nil, nil
		}
		props, _ := node["properties"].(map[string]any)
		child, ok := props[segments[i+1]].(map[string]any)
		if !ok {
			return nil, nil, nil
		}
		names = append(names, segments[i+1])
		parent, node = node, child
		i++
	}
	return names, node, parent
}

func schemaType(node map[string]any) string {
	switch typed := node["type"].(type) {
	case string:
		return typed
	case []any:
		for _, entry := range typed {
			if s, ok := entry.(string); ok && s != "null" {
				return s
			}
		}
	}
	if _, ok := node["properties"]; ok {
		return "object"
	}
	return ""
}

// Humanize turns a property name such as "birthDate" or "postal_code" into a
// label ("Birth Date", "Postal Code").
func Humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0 && len(current) > 0 && !unicode.IsUpper(current[len(current)-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
