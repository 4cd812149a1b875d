package textmodel_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/textmodel"
)

func sequentialIDs() textmodel.Option {
	next := 0
	return textmodel.WithIDGenerator(func() string {
		next++
		return fmt.Sprintf("model-%d", next)
	})
}

func TestGetOrCreate_ReturnsExistingUntouched(t *testing.T) {
	cache := textmodel.New(sequentialIDs())
	uri := resource.URI("person", resource.KindData)

	first := cache.GetOrCreate(uri, `{"a":1}`)
	first.SetValue(`{"a":2}`)

	second := cache.GetOrCreate(uri, `{"a":3}`)
	if second != first {
		t.Fatalf("expected the same handle")
	}
	if second.Value() != `{"a":2}` {
		t.Fatalf("existing text must not be reset, got %q", second.Value())
	}
	if second.Version() != 2 {
		t.Fatalf("expected version 2, got %d", second.Version())
	}
	if second.Language() != "json" {
		t.Fatalf("language = %q", second.Language())
	}
}

func TestRecreate_NewIdentitySameURI(t *testing.T) {
	cache := textmodel.New(sequentialIDs())
	uri := resource.URI("person", resource.KindSchema)

	old := cache.GetOrCreate(uri, "{}")
	fresh := cache.Recreate(uri, `{"type":"object"}`)

	if fresh.ID() == old.ID() {
		t.Fatalf("recreated buffer must have a new id")
	}
	if fresh.URI() != old.URI() {
		t.Fatalf("uri changed: %q vs %q", fresh.URI(), old.URI())
	}
	if !old.Disposed() {
		t.Fatalf("previous buffer should be disposed")
	}
	if old.SetValue("ignored") {
		t.Fatalf("disposed buffers reject edits")
	}
	got, _ := cache.Get(uri)
	if got != fresh {
		t.Fatalf("cache should hold the fresh buffer")
	}
}

func TestSetValue_NoOpWhenUnchanged(t *testing.T) {
	cache := textmodel.New()
	uri := resource.URI("x", resource.KindData)
	model := cache.GetOrCreate(uri, "1")

	if cache.SetValue(uri, "1") {
		t.Fatalf("unchanged text should be a no-op")
	}
	if model.Version() != 1 {
		t.Fatalf("version bumped on no-op: %d", model.Version())
	}
	if !cache.SetValue(uri, "2") {
		t.Fatalf("changed text should apply")
	}
	if cache.SetValue("missing.data.json", "x") {
		t.Fatalf("missing buffer should report false")
	}
}

func TestEventsAndDisposeExample(t *testing.T) {
	cache := textmodel.New(sequentialIDs())

	var events []textmodel.Event
	cancel := cache.Subscribe(func(event textmodel.Event) {
		events = append(events, event)
	})

	for _, kind := range []resource.Kind{resource.KindSchema, resource.KindData} {
		cache.GetOrCreate(resource.URI("demo", kind), "{}")
	}
	cache.SetValue(resource.URI("demo", resource.KindData), "[]")
	if got := cache.DisposeExample("demo"); got != 2 {
		t.Fatalf("expected 2 disposed buffers, got %d", got)
	}
	cancel()
	cache.GetOrCreate("after.data.json", "")

	want := []textmodel.Event{
		{Type: textmodel.EventCreated, URI: "demo.schema.json", ID: "model-1", Version: 1},
		{Type: textmodel.EventCreated, URI: "demo.data.json", ID: "model-2", Version: 1},
		{Type: textmodel.EventChanged, URI: "demo.data.json", ID: "model-2", Version: 2},
		{Type: textmodel.EventDisposed, URI: "demo.schema.json", ID: "model-1", Version: 1},
		{Type: textmodel.EventDisposed, URI: "demo.data.json", ID: "model-2", Version: 2},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"after.data.json"}, cache.URIs()); diff != "" {
		t.Fatalf("uris mismatch (-want +got):\n%s", diff)
	}
}
