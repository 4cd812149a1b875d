package schemacatalog_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/schemacatalog"
	"github.com/goliatone/go-formstudio/pkg/testsupport"
)

func newRegistry(t *testing.T) (*schemacatalog.Registry, *catalog.Catalog) {
	t.Helper()
	cat := testsupport.Catalog(t)
	registry := schemacatalog.New()
	if err := registry.RegisterAll(cat.Examples()); err != nil {
		t.Fatalf("register all: %v", err)
	}
	return registry, cat
}

func associationURIs(registry *schemacatalog.Registry) []string {
	var out []string
	for _, assoc := range registry.Associations() {
		out = append(out, assoc.URI)
	}
	return out
}

func TestRegisterAll_Idempotent(t *testing.T) {
	registry, cat := newRegistry(t)

	want := []string{
		"http://json-schema.org/draft-07/schema",
		"mem://formstudio/data/person.json",
		"mem://formstudio/data/todo.json",
		"mem://formstudio/meta/uischema.json",
	}
	if diff := cmp.Diff(want, associationURIs(registry)); diff != "" {
		t.Fatalf("associations mismatch (-want +got):\n%s", diff)
	}

	revision := registry.Revision()
	if err := registry.RegisterAll(cat.Examples()); err != nil {
		t.Fatalf("register again: %v", err)
	}
	if diff := cmp.Diff(want, associationURIs(registry)); diff != "" {
		t.Fatalf("second registration changed associations (-want +got):\n%s", diff)
	}
	if registry.Revision() != revision {
		t.Fatalf("revision moved on identical registration: %d -> %d", revision, registry.Revision())
	}

	diags := registry.Diagnose("person.data.json", `{}`)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %#v", diags)
	}
}

func TestRegisterData_TitleAndFileMatch(t *testing.T) {
	registry, _ := newRegistry(t)

	assoc, ok := registry.Lookup(schemacatalog.DataURI("person"))
	if !ok {
		t.Fatalf("person data association missing")
	}
	if diff := cmp.Diff([]string{"person.data.json"}, assoc.FileMatch); diff != "" {
		t.Fatalf("file match mismatch (-want +got):\n%s", diff)
	}
	if got, _ := assoc.Schema.Get("title"); got != "Person" {
		t.Fatalf("schema title = %#v", got)
	}
	if assoc.Matches("todo.data.json") {
		t.Fatalf("person data association must not match other examples")
	}
}

func TestRegisterData_ReplacesValidator(t *testing.T) {
	registry, cat := newRegistry(t)
	person, _ := cat.Lookup("person")

	if diags := registry.Diagnose("person.data.json", `{"name": 5}`); len(diags) != 1 {
		t.Fatalf("expected a type error, got %#v", diags)
	}

	before := registry.Revision()
	schema := testsupport.MustParse(t, `{"type": "object", "properties": {"name": {"type": "number"}}}`)
	if err := registry.RegisterData(person, schema); err != nil {
		t.Fatalf("register data: %v", err)
	}
	if registry.Revision() == before {
		t.Fatalf("revision should move when the schema changes")
	}
	if diags := registry.Diagnose("person.data.json", `{"name": 5}`); len(diags) != 0 {
		t.Fatalf("new schema should accept numbers, got %#v", diags)
	}
	if got := len(registry.Associations()); got != 4 {
		t.Fatalf("expected 4 associations, got %d", got)
	}
}

func TestDiagnose_SyntaxError(t *testing.T) {
	registry, _ := newRegistry(t)

	diags := registry.Diagnose("person.data.json", "{\n  \"name\": \n}")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %#v", diags)
	}
	got := diags[0]
	if got.Source != schemacatalog.SourceSyntax || got.Severity != schemacatalog.SeverityError {
		t.Fatalf("unexpected diagnostic %#v", got)
	}
	if got.Line != 3 || got.Column != 1 {
		t.Fatalf("expected 3:1, got %d:%d", got.Line, got.Column)
	}
	if diags := registry.Diagnose("person.data.json", "   "); diags != nil {
		t.Fatalf("blank text has nothing to check, got %#v", diags)
	}
}

func TestDiagnose_SchemaErrorsCarryPositions(t *testing.T) {
	registry, _ := newRegistry(t)

	diags := registry.Diagnose("person.data.json", "{\n  \"name\": \"Al\"\n}")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %#v", diags)
	}
	got := diags[0]
	if got.Keyword != "minLength" || got.Path != "/name" {
		t.Fatalf("unexpected diagnostic %#v", got)
	}
	if got.Line != 2 || got.Column != 11 {
		t.Fatalf("expected 2:11, got %d:%d", got.Line, got.Column)
	}
	if got.Source != schemacatalog.DataURI("person") {
		t.Fatalf("source = %q", got.Source)
	}
}

func TestDiagnose_MetaSchemas(t *testing.T) {
	registry, _ := newRegistry(t)

	if diags := registry.Diagnose("anything.uischema.json", testsupport.PersonUISchema); len(diags) != 0 {
		t.Fatalf("valid ui schema reported %#v", diags)
	}
	if diags := registry.Diagnose("anything.uischema.json", `{"type": "Control"}`); len(diags) == 0 {
		t.Fatalf("controls without scope should be reported")
	}
	if diags := registry.Diagnose("anything.uischema.json", `{"type": "Bogus"}`); len(diags) == 0 {
		t.Fatalf("unknown element types should be reported")
	}
	if diags := registry.Diagnose("person.schema.json", testsupport.PersonSchema); len(diags) != 0 {
		t.Fatalf("valid schema reported %#v", diags)
	}
	if diags := registry.Diagnose("person.schema.json", `{"type": 5}`); len(diags) == 0 {
		t.Fatalf("invalid schema keyword should be reported")
	}
	if diags := registry.Diagnose("notes.data.json", `{"anything": true}`); len(diags) != 0 {
		t.Fatalf("examples without schema have no data validator, got %#v", diags)
	}
}

func TestRegister_CompileFailureBecomesDiagnostic(t *testing.T) {
	registry := schemacatalog.New()
	example := catalog.Example{Name: "broken"}
	if err := registry.RegisterData(example, testsupport.MustParse(t, `{"type": "bogus"}`)); err != nil {
		t.Fatalf("register data: %v", err)
	}

	if _, ok := registry.Validator("broken.data.json"); ok {
		t.Fatalf("broken schema should not yield a validator")
	}
	diags := registry.Diagnose("broken.data.json", `{}`)
	if len(diags) != 1 || diags[0].Severity != schemacatalog.SeverityWarning {
		t.Fatalf("expected one warning, got %#v", diags)
	}
}

func TestRegister_RejectsIncompleteAssociations(t *testing.T) {
	registry := schemacatalog.New()
	if err := registry.Register(schemacatalog.Association{FileMatch: []string{"x"}}); err == nil {
		t.Fatalf("expected missing uri error")
	}
	if err := registry.Register(schemacatalog.Association{URI: "mem://formstudio/x"}); err == nil {
		t.Fatalf("expected missing pattern error")
	}
	if err := registry.RegisterData(catalog.Example{}, testsupport.MustParse(t, `{}`)); err == nil {
		t.Fatalf("expected missing name error")
	}
}

func TestValidator_PrefersExactMatch(t *testing.T) {
	registry, _ := newRegistry(t)

	validator, ok := registry.Validator("person.data.json")
	if !ok {
		t.Fatalf("validator missing")
	}
	if validator.URI() != schemacatalog.DataURI("person") {
		t.Fatalf("validator uri = %q", validator.URI())
	}
	if _, ok := registry.Validator("person.i18n.json"); ok {
		t.Fatalf("i18n files have no association")
	}
}

func TestComplete(t *testing.T) {
	registry, _ := newRegistry(t)

	got := registry.Complete("person.data.json", "")
	want := []schemacatalog.Completion{
		{Label: "age", Detail: "integer"},
		{Label: "name", Detail: "string", Doc: "Name", Required: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("completions mismatch (-want +got):\n%s", diff)
	}

	nested := registry.Complete("person.uischema.json", "/elements/0")
	if len(nested) == 0 || nested[0].Label != "elements" {
		t.Fatalf("ui schema completions should follow $ref, got %#v", nested)
	}
	if got := registry.Complete("person.data.json", "/missing"); got != nil {
		t.Fatalf("unknown pointer should yield nothing, got %#v", got)
	}
	if got := registry.Complete("person.schema.json", ""); got != nil {
		t.Fatalf("bundled meta-schemas carry no document, got %#v", got)
	}
}

func TestRegister_ConcurrentSameAssociationBumpsRevisionOnce(t *testing.T) {
	registry, cat := newRegistry(t)
	person, _ := cat.Lookup("person")
	schema := testsupport.MustParse(t, `{"type": "object", "properties": {"name": {"type": "number"}}}`)

	before := registry.Revision()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := registry.RegisterData(person, schema); err != nil {
				t.Errorf("register data: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := registry.Revision(); got != before+1 {
		t.Fatalf("expected one revision bump, got %d -> %d", before, got)
	}
}
