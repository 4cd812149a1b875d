package playground_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/lifecycle"
	"github.com/goliatone/go-formstudio/pkg/playground"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/testsupport"
	"github.com/goliatone/go-formstudio/pkg/textmodel"
)

func newPlayground(t *testing.T, renderer *testsupport.RecordingRenderer, opts ...playground.Option) *playground.Playground {
	t.Helper()
	settings := state.DefaultSettings()
	settings.Renderers = []string{"missing", renderer.Name()}

	base := []playground.Option{
		playground.WithCatalog(testsupport.Catalog(t)),
		playground.WithSettings(settings),
		playground.WithNotificationDuration(0),
		playground.WithRenderers(renderer),
	}
	p, err := playground.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new playground: %v", err)
	}
	return p
}

func TestNew_EmptyCatalog(t *testing.T) {
	empty, err := catalog.New()
	if err != nil {
		t.Fatalf("empty catalog: %v", err)
	}
	if _, err := playground.New(playground.WithCatalog(empty)); !errors.Is(err, playground.ErrNoExamples) {
		t.Fatalf("expected ErrNoExamples, got %v", err)
	}
}

func TestNew_EmbeddedCatalog(t *testing.T) {
	p, err := playground.New()
	if err != nil {
		t.Fatalf("new playground: %v", err)
	}
	if err := p.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.Active() != "address" {
		t.Fatalf("expected the first embedded example, got %q", p.Active())
	}
}

func TestStart_SelectsFirstExampleAndCreatesBuffers(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})

	if err := p.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.Active() != "person" {
		t.Fatalf("active = %q", p.Active())
	}
	want := []resource.Kind{resource.KindSchema, resource.KindUISchema, resource.KindData, resource.KindI18n}
	if diff := cmp.Diff(want, p.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	text, ok := p.Buffer(resource.KindData)
	if !ok {
		t.Fatalf("data buffer missing")
	}
	if text != jsonvalue.Pretty(testsupport.MustParse(t, testsupport.PersonData)) {
		t.Fatalf("unexpected data buffer %q", text)
	}

	if err := p.Select("todo"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, ok := p.Cache().Get(resource.URI("person", resource.KindData)); ok {
		t.Fatalf("previous example buffers must be disposed")
	}
	if err := p.Select("nope"); !errors.Is(err, lifecycle.ErrUnknownExample) {
		t.Fatalf("expected ErrUnknownExample, got %v", err)
	}
	if p.Active() != "todo" {
		t.Fatalf("unknown selection must not change the active example")
	}
}

func TestEditApplyAndDiagnose(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !p.Edit(resource.KindData, `{"name": "Al"}`) {
		t.Fatalf("edit should change the buffer")
	}
	if diags := p.Diagnose(resource.KindData); len(diags) == 0 {
		t.Fatalf("expected a minLength diagnostic")
	}
	if got := p.Store().Snapshot().Data; !got.Equal(testsupport.MustParse(t, testsupport.PersonData)) {
		t.Fatalf("edits must not reach the state before apply")
	}

	if err := p.Apply(resource.KindData); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := p.Store().Snapshot().Data; !got.Equal(testsupport.MustParse(t, `{"name": "Al"}`)) {
		t.Fatalf("unexpected state data %s", jsonvalue.Pretty(got))
	}
	if errs := p.Validate(); len(errs) != 1 {
		t.Fatalf("expected one validation issue, got %#v", errs)
	}
	if note, ok := p.Notifier().Current(); !ok || note.Message != "Data applied" {
		t.Fatalf("unexpected notification %#v", note)
	}

	if err := p.Reload(resource.KindData); err != nil {
		t.Fatalf("reload: %v", err)
	}
	text, _ := p.Buffer(resource.KindData)
	if text != jsonvalue.Pretty(testsupport.MustParse(t, testsupport.PersonData)) {
		t.Fatalf("reload should restore the catalog data, got %q", text)
	}
}

func TestRenderForm_SyncsChangesIntoBuffer(t *testing.T) {
	edited := testsupport.MustParse(t, `{"name": "Grace", "age": 40}`)
	renderer := &testsupport.RecordingRenderer{Edits: []jsonvalue.Value{edited}}
	p := newPlayground(t, renderer)
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := p.RenderForm(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(renderer.Rendered) != 1 || renderer.Rendered[0].Example != "person" {
		t.Fatalf("renderer did not receive the person state")
	}
	if got := p.Store().Snapshot().Data; !got.Equal(edited) {
		t.Fatalf("state data = %s", jsonvalue.Pretty(got))
	}
	text, _ := p.Buffer(resource.KindData)
	if text != jsonvalue.Pretty(edited) {
		t.Fatalf("data buffer = %q", text)
	}
}

func TestRenderForm_NoActiveExample(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})
	if err := p.RenderForm(context.Background()); err == nil {
		t.Fatalf("expected an error without an active example")
	}
}

func TestRunAction(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := p.RunAction(0); err != nil {
		t.Fatalf("run action: %v", err)
	}
	if got, _ := p.Store().Snapshot().Data.Get("name"); got != "Grace" {
		t.Fatalf("name = %#v", got)
	}
	if err := p.RunAction(1); err != nil {
		t.Fatalf("run action: %v", err)
	}
	if !p.Store().Snapshot().Readonly {
		t.Fatalf("lock action should make the form readonly")
	}
	if err := p.RunAction(9); err == nil {
		t.Fatalf("expected an out of range error")
	}
}

func TestRunAction_MirrorsDataIntoBuffer(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}
	p.Edit(resource.KindData, `{"name": "draft"}`)

	if err := p.RunAction(0); err != nil {
		t.Fatalf("run action: %v", err)
	}
	text, _ := p.Buffer(resource.KindData)
	if want := jsonvalue.Pretty(p.Store().Snapshot().Data); text != want {
		t.Fatalf("data buffer not mirrored:\nwant %s\ngot  %s", want, text)
	}
	if diff := cmp.Diff(p.Validate().Messages(), p.Store().Errors().Messages()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if note, ok := p.Notifier().Current(); ok {
		t.Fatalf("actions post no notification, got %#v", note)
	}

	version := mustModel(t, p, resource.KindData).Version()
	if err := p.RunAction(1); err != nil {
		t.Fatalf("run action: %v", err)
	}
	if got := mustModel(t, p, resource.KindData).Version(); got != version {
		t.Fatalf("actions that leave data alone must not touch the buffer")
	}
}

func TestSelect_ActionSettingsDoNotLeak(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{})
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.RunAction(1); err != nil {
		t.Fatalf("run action: %v", err)
	}
	if err := p.Select("todo"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if p.Store().Snapshot().Readonly {
		t.Fatalf("readonly from the previous example's action leaked into todo")
	}

	settings := p.Settings()
	settings.Readonly = true
	p.SetSettings(settings)
	if err := p.Select("person"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !p.Store().Snapshot().Readonly {
		t.Fatalf("process-wide readonly should apply to every example")
	}
}

func mustModel(t *testing.T, p *playground.Playground, kind resource.Kind) *textmodel.Model {
	t.Helper()
	model, ok := p.Cache().Get(resource.URI(p.Active(), kind))
	if !ok {
		t.Fatalf("no %s buffer", kind)
	}
	return model
}

func TestFormOnly(t *testing.T) {
	p := newPlayground(t, &testsupport.RecordingRenderer{}, playground.WithFormOnly(true))
	if err := p.Start("person"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := p.Buffer(resource.KindData); ok {
		t.Fatalf("form-only mode must not create buffers")
	}
	if err := p.Apply(resource.KindData); err != nil {
		t.Fatalf("apply without buffer should be a no-op, got %v", err)
	}

	p.SetFormOnly(false)
	if p.FormOnly() {
		t.Fatalf("form-only mode should be off")
	}
	if _, ok := p.Buffer(resource.KindData); !ok {
		t.Fatalf("leaving form-only mode should restore buffers")
	}

	p.Close()
	if len(p.Cache().URIs()) != 0 {
		t.Fatalf("close should dispose every buffer, got %v", p.Cache().URIs())
	}
}

func TestLoadCatalog_DirAndOpenAPIFile(t *testing.T) {
	cat, err := playground.LoadCatalog(context.Background(), playground.Sources{
		Dir:     filepath.Join("..", "catalog", "testdata", "single"),
		OpenAPI: filepath.Join("..", "catalog", "testdata", "openapi", "petstore.yaml"),
	})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"todo", "Owner", "Pet"}, cat.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCatalog_OpenAPIOverHTTP(t *testing.T) {
	spec, err := os.ReadFile(filepath.Join("..", "catalog", "testdata", "openapi", "petstore.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(spec)
	}))
	defer server.Close()

	cat, err := playground.LoadCatalog(context.Background(), playground.Sources{
		OpenAPI:    server.URL + "/openapi.yaml",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"address", "generated", "person", "Owner", "Pet"}, cat.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	if _, err := playground.LoadCatalog(context.Background(), playground.Sources{Dir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
	if _, err := playground.LoadCatalog(context.Background(), playground.Sources{OpenAPI: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected an error for a missing openapi document")
	}

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	if _, err := playground.LoadCatalog(context.Background(), playground.Sources{OpenAPI: server.URL}); err == nil {
		t.Fatalf("expected an error for a 404 response")
	}
}
