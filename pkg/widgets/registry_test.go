package widgets

import (
	"testing"

	"github.com/goliatone/go-formstudio/pkg/form"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := form.Field{Type: "boolean", Widget: "custom-toggle"}

	if got := reg.Resolve(field); got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q", got)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  form.Field
		expect string
	}{
		{name: "boolean toggle", field: form.Field{Type: "boolean"}, expect: WidgetToggle},
		{name: "enum select", field: form.Field{Type: "string", Enum: []string{"a", "b"}}, expect: WidgetSelect},
		{name: "numeric enum select", field: form.Field{Type: "integer", Enum: []string{"1", "2"}}, expect: WidgetSelect},
		{name: "array of enums edits json", field: form.Field{Type: "array", Enum: []string{"a"}}, expect: WidgetJSONEditor},
		{name: "integer", field: form.Field{Type: "integer"}, expect: WidgetNumber},
		{name: "number", field: form.Field{Type: "number"}, expect: WidgetNumber},
		{name: "object", field: form.Field{Type: "object"}, expect: WidgetJSONEditor},
		{name: "password", field: form.Field{Type: "string", Format: "password"}, expect: WidgetPassword},
		{name: "multi option", field: form.Field{Type: "string", Multiline: true}, expect: WidgetMultiline},
		{name: "yaml format", field: form.Field{Type: "string", Format: "YAML"}, expect: WidgetMultiline},
		{name: "plain string", field: form.Field{Type: "string"}, expect: WidgetText},
		{name: "untyped", field: form.Field{}, expect: WidgetText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reg.Resolve(tc.field); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(form.Field) bool { return true })
	reg.Register("second", 10, func(form.Field) bool { return true })
	reg.Register("", 99, func(form.Field) bool { return true })
	reg.Register("nil", 99, nil)

	if got := reg.Resolve(form.Field{}); got != "first" {
		t.Fatalf("expected registration order to break ties, got %q", got)
	}

	reg.Register("urgent", 20, func(field form.Field) bool { return field.Type == "string" })
	if got := reg.Resolve(form.Field{Type: "string"}); got != "urgent" {
		t.Fatalf("expected higher priority to win, got %q", got)
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	var reg *Registry
	if got := reg.Resolve(form.Field{Type: "boolean"}); got != WidgetText {
		t.Fatalf("expected text for a nil registry, got %q", got)
	}
	if got := (&Registry{}).Resolve(form.Field{Type: "boolean"}); got != WidgetText {
		t.Fatalf("expected text for an empty registry, got %q", got)
	}
}
