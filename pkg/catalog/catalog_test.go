package catalog_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

func TestLoadFS_SingleJSON(t *testing.T) {
	cat := loadCatalog(t, "single")

	example, ok := cat.Lookup("todo")
	if !ok {
		t.Fatalf("todo example not found")
	}
	if example.Label != "Todo item" {
		t.Fatalf("label not sanitized: %q", example.Label)
	}
	if !example.Data.IsNull() {
		t.Fatalf("explicit null data should stay null, got %#v", example.Data)
	}
	if example.UISchema.Defined() {
		t.Fatalf("missing uischema should be undefined")
	}
	if example.HasI18n() {
		t.Fatalf("example declares no i18n bundle")
	}
	if diff := cmp.Diff([]string{"wide"}, example.UISchemaNames()); diff != "" {
		t.Fatalf("ui schema names mismatch (-want +got):\n%s", diff)
	}
	if len(example.Actions) != 1 || example.Actions[0].Label != "clear-errors" {
		t.Fatalf("action label should default to command: %#v", example.Actions)
	}
}

func TestLoadFS_YAMLList(t *testing.T) {
	cat := loadCatalog(t, "multi")

	if diff := cmp.Diff([]string{"alpha", "beta"}, cat.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	alpha, _ := cat.Lookup("alpha")
	if got := jsonvalue.Pretty(alpha.Data); got != "{\n  \"count\": 2\n}" {
		t.Fatalf("alpha data mismatch: %q", got)
	}
	if alpha.Title() != "alpha" {
		t.Fatalf("title should fall back to name, got %q", alpha.Title())
	}
}

func TestLoadFS_DuplicateNames(t *testing.T) {
	_, err := catalog.LoadFS(subDirFS(t, "duplicate"))
	if !errors.Is(err, catalog.ErrDuplicateExample) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":     "  ",
		"no name":   `{"label": "x"}`,
		"not list":  "examples: 3",
		"bad entry": "examples: [1]",
		"garbage":   "{: [",
	}
	for name, input := range cases {
		if _, err := catalog.Parse([]byte(input), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	cat := loadCatalog(t, "multi")

	alpha, _ := cat.Lookup("alpha")
	obj, _ := alpha.Data.Object()
	obj["count"] = "mutated"

	again, _ := cat.Lookup("alpha")
	if got, _ := again.Data.Get("count"); got == "mutated" {
		t.Fatalf("catalog state leaked through Lookup")
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"address", "generated", "person"}, cat.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	address, _ := cat.Lookup("address")
	if address.Label != "Address & contact" {
		t.Fatalf("address label = %q", address.Label)
	}
	person, _ := cat.Lookup("person")
	if !person.HasI18n() {
		t.Fatalf("person should declare translations")
	}
	if len(person.Actions) != 4 {
		t.Fatalf("expected 4 person actions, got %d", len(person.Actions))
	}
	generated, _ := cat.Lookup("generated")
	if generated.UISchema.Defined() {
		t.Fatalf("generated example has no ui schema")
	}
	first, ok := cat.First()
	if !ok || first.Name != "address" {
		t.Fatalf("first example = %q", first.Name)
	}
}

func TestMerge(t *testing.T) {
	left, _ := catalog.New(catalog.Example{Name: "a"})
	right, _ := catalog.New(catalog.Example{Name: "b"})

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Len() != 2 {
		t.Fatalf("expected 2 examples, got %d", merged.Len())
	}
	if _, err := merged.Merge(left); !errors.Is(err, catalog.ErrDuplicateExample) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestFromOpenAPI(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(testdataRoot(), "openapi", "petstore.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	examples, err := catalog.FromOpenAPI(context.Background(), data)
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}

	owner, pet := examples[0], examples[1]
	if owner.Name != "Owner" || pet.Name != "Pet" {
		t.Fatalf("unexpected order: %q, %q", owner.Name, pet.Name)
	}
	if owner.Data.Defined() {
		t.Fatalf("owner declares no example")
	}
	if pet.Label != "A pet" {
		t.Fatalf("pet label = %q", pet.Label)
	}
	if got, _ := pet.Data.Get("name"); got != "Rex" {
		t.Fatalf("pet data = %#v", pet.Data.Interface())
	}
	if got, _ := pet.Schema.Get("properties.owner.$ref"); got != "#/definitions/Owner" {
		t.Fatalf("owner ref not rewritten: %#v", got)
	}
	if _, ok := pet.Schema.Get("definitions.Owner"); !ok {
		t.Fatalf("definitions missing from pet schema")
	}
	if _, ok := owner.Schema.Get("definitions"); ok {
		t.Fatalf("owner schema has no references and needs no definitions")
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"  Plain  ":              "Plain",
		"<script>x</script>Safe": "Safe",
		"Tom &amp; Jerry":        "Tom & Jerry",
		"<p>Multi\n   line</p>":  "Multi line",
	}
	for input, want := range cases {
		if got := catalog.SanitizeLabel(input); got != want {
			t.Fatalf("sanitize %q: want %q got %q", input, want, got)
		}
	}
}

func loadCatalog(t *testing.T, subdir string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadFS(subDirFS(t, subdir))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	fsys, err := fs.Sub(os.DirFS(testdataRoot()), subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}
