package testsupport

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

// PersonSchema is the schema of the "person" sample example.
const PersonSchema = `{
  "type": "object",
  "properties": {
    "name": { "type": "string", "title": "Name", "minLength": 3 },
    "age": { "type": "integer", "minimum": 0 }
  },
  "required": ["name"]
}`

// PersonUISchema is the UI schema of the "person" sample example.
const PersonUISchema = `{
  "type": "VerticalLayout",
  "elements": [
    { "type": "Control", "scope": "#/properties/name" },
    { "type": "Control", "scope": "#/properties/age" }
  ]
}`

// PersonData is the initial data of the "person" sample example.
const PersonData = `{"name": "Ada", "age": 36}`

// MustParse decodes JSON text or fails the test.
func MustParse(t testing.TB, text string) jsonvalue.Value {
	t.Helper()
	value, err := jsonvalue.Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return value
}

// PersonExample returns the "person" sample: schema, UI schema, data, an
// i18n bundle, one alternative UI schema and two actions.
func PersonExample(t testing.TB) catalog.Example {
	t.Helper()
	return catalog.Example{
		Name:     "person",
		Label:    "Person",
		Schema:   MustParse(t, PersonSchema),
		UISchema: MustParse(t, PersonUISchema),
		Data:     MustParse(t, PersonData),
		I18n:     MustParse(t, `{"name": {"label": "Full name"}}`),
		UISchemas: map[string]jsonvalue.Value{
			"compact": MustParse(t, `{"type": "VerticalLayout", "elements": [{"type": "Control", "scope": "#/properties/name"}]}`),
		},
		Actions: []catalog.Action{
			{Label: "Rename", Command: "set-value", Params: map[string]any{"path": "name", "value": "Grace"}},
			{Label: "Lock", Command: "set-readonly", Params: map[string]any{"readonly": true}},
		},
	}
}

// TodoExample returns the "todo" sample, which has no UI schema and no data.
func TodoExample(t testing.TB) catalog.Example {
	t.Helper()
	return catalog.Example{
		Name:   "todo",
		Label:  "Todo",
		Schema: MustParse(t, `{"type": "object", "properties": {"title": {"type": "string"}, "done": {"type": "boolean"}}}`),
	}
}

// NotesExample returns the "notes" sample, which declares no schema.
func NotesExample(t testing.TB) catalog.Example {
	t.Helper()
	return catalog.Example{
		Name: "notes",
		Data: MustParse(t, `{"text": "hello"}`),
	}
}

// Catalog builds a catalog holding the person, todo and notes samples.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(PersonExample(t), TodoExample(t), NotesExample(t))
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Capture runs render against a buffer and returns what was written.
func Capture(t testing.TB, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
