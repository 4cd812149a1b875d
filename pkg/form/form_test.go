package form_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/testsupport"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

func personState(t *testing.T) state.FormState {
	t.Helper()
	return state.Derive(testsupport.PersonExample(t), state.DefaultSettings())
}

func TestFields_FollowUISchema(t *testing.T) {
	got := form.Fields(personState(t))
	want := []form.Field{
		{Path: "name", Label: "Full name", Type: "string", Required: true},
		{Path: "age", Label: "Age", Type: "integer"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_GeneratedWithoutUISchema(t *testing.T) {
	s := state.Derive(testsupport.TodoExample(t), state.Settings{Readonly: true})
	got := form.Fields(s)
	want := []form.Field{
		{Path: "done", Label: "Done", Type: "boolean", Readonly: true},
		{Path: "title", Label: "Title", Type: "string", Readonly: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_GroupsNestedObjectsAndOptions(t *testing.T) {
	s := state.FormState{
		Schema: testsupport.MustParse(t, `{
  "type": "object",
  "properties": {
    "contact": {
      "type": "object",
      "title": "Contact",
      "required": ["email"],
      "properties": {
        "email": {"type": "string", "format": "email"},
        "kind": {"type": "string", "enum": ["home", "work"], "readOnly": true}
      }
    }
  }
}`),
		UISchema: testsupport.MustParse(t, `{
  "type": "Group",
  "label": "Details",
  "elements": [
    {"type": "Label", "text": "Intro"},
    {"type": "Control", "scope": "#/properties/contact/properties/email", "label": "E-mail", "options": {"readonly": true}},
    {"type": "Control", "scope": "#/properties/contact/properties/kind"},
    {"type": "Control", "scope": "#/properties/missing"}
  ]
}`),
	}

	got := form.Fields(s)
	want := []form.Field{
		{Path: "contact.email", Label: "E-mail", Type: "string", Format: "email", Required: true, Readonly: true, Group: "Details"},
		{Path: "contact.kind", Label: "Kind", Type: "string", Enum: []string{"home", "work"}, Readonly: true, Group: "Details"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_UISchemaRules(t *testing.T) {
	s := state.FormState{
		Schema: testsupport.MustParse(t, `{
  "type": "object",
  "properties": {
    "subscribe": {"type": "boolean"},
    "email": {"type": "string"},
    "plan": {"type": "string"}
  }
}`),
		UISchema: testsupport.MustParse(t, `{
  "type": "VerticalLayout",
  "elements": [
    {"type": "Control", "scope": "#/properties/subscribe"},
    {
      "type": "Control",
      "scope": "#/properties/email",
      "rule": {"effect": "SHOW", "condition": {"scope": "#/properties/subscribe", "schema": {"const": true}}}
    },
    {
      "type": "Group",
      "label": "Billing",
      "rule": {"effect": "DISABLE", "condition": {"scope": "#/properties/subscribe", "schema": {"const": false}}},
      "elements": [{"type": "Control", "scope": "#/properties/plan"}]
    },
    {"type": "Control", "scope": "#/properties/plan", "rule": {"effect": "NOPE"}}
  ]
}`),
		Data: testsupport.MustParse(t, `{"subscribe": false}`),
	}

	got := form.Fields(s)
	want := []form.Field{
		{Path: "subscribe", Label: "Subscribe", Type: "boolean"},
		{Path: "plan", Label: "Plan", Type: "string", Readonly: true, Group: "Billing"},
		{Path: "plan", Label: "Plan", Type: "string"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	s.Data = testsupport.MustParse(t, `{"subscribe": true}`)
	if got := form.Fields(s); len(got) != 4 || got[1].Path != "email" || got[2].Readonly {
		t.Fatalf("subscribing should show the email and enable billing, got %#v", got)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"birthDate":   "Birth Date",
		"postal_code": "Postal Code",
		"URL":         "URL",
		"name":        "Name",
		"":            "",
	}
	for input, want := range cases {
		if got := form.Humanize(input); got != want {
			t.Fatalf("humanize %q: want %q got %q", input, want, got)
		}
	}
}

func TestChange_HonoursValidationMode(t *testing.T) {
	s := personState(t)
	validator, err := validation.Compile("form-test", s.Schema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	invalid := testsupport.MustParse(t, `{"name": "Al"}`)

	if event := form.Change(s, validator, invalid); len(event.Errors) != 1 {
		t.Fatalf("expected one error, got %#v", event.Errors)
	}

	s.ValidationMode = validation.ModeValidateAndHide
	event := form.Change(s, validator, invalid)
	if len(event.Errors) != 1 {
		t.Fatalf("hidden mode still validates, got %#v", event.Errors)
	}
	if mapping := form.MapErrors(s, event.Errors); mapping.Fields != nil {
		t.Fatalf("hidden errors must not be displayed: %#v", mapping)
	}

	s.ValidationMode = validation.ModeNoValidation
	if event := form.Change(s, validator, invalid); event.Errors != nil {
		t.Fatalf("no validation should yield no errors, got %#v", event.Errors)
	}
}

func TestMapErrors(t *testing.T) {
	s := personState(t)
	s.AdditionalErrors = []validation.Issue{{Message: "server said no"}, {Field: "name", Message: "taken"}}
	errs := validation.ErrorSet{
		{Field: "name", Message: "too short"},
		{Field: "name", Message: "too short"},
	}

	got := form.MapErrors(s, errs)
	want := form.ErrorMapping{
		Fields: map[string][]string{"name": {"too short", "taken"}},
		Form:   []string{"server said no"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string { return s.name }

func (s stubRenderer) Render(context.Context, state.FormState, *validation.Validator, form.ChangeFunc) error {
	return nil
}

func TestRegistry(t *testing.T) {
	registry := form.NewRegistry()
	if err := registry.Register(stubRenderer{name: "tui"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "tui"}); err == nil {
		t.Fatalf("duplicate should fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("empty name should fail")
	}
	renderer, err := registry.First([]string{"html", "tui"})
	if err != nil || renderer.Name() != "tui" {
		t.Fatalf("first = %v, %v", renderer, err)
	}
	if _, err := registry.First([]string{"html"}); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if diff := cmp.Diff([]string{"tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
