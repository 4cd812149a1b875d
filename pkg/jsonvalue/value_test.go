package jsonvalue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValue_EqualDistinguishesUndefinedAndNull(t *testing.T) {
	if !Undefined().Equal(Value{}) {
		t.Fatalf("zero value should be undefined")
	}
	if Undefined().Equal(Null()) {
		t.Fatalf("undefined must not equal null")
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	v := Of(map[string]any{"list": []any{"a"}})
	clone := v.Clone()
	obj, _ := clone.Object()
	obj["list"].([]any)[0] = "changed"

	orig, _ := v.Object()
	if orig["list"].([]any)[0] != "a" {
		t.Fatalf("clone shares nested state with original")
	}
}

func TestValue_WithCopiesOnWrite(t *testing.T) {
	v := Of(map[string]any{"person": map[string]any{"name": "Ada"}})

	next, err := v.With("person.address.city", "London")
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	got, ok := next.Get("person.address.city")
	if !ok || got != "London" {
		t.Fatalf("expected nested value, got %v %v", got, ok)
	}
	if _, ok := v.Get("person.address"); ok {
		t.Fatalf("original document was mutated")
	}

	list, err := Undefined().With("items.2", "c")
	if err != nil {
		t.Fatalf("with index: %v", err)
	}
	want := map[string]any{"items": []any{nil, nil, "c"}}
	if diff := cmp.Diff(want, list.Interface()); diff != "" {
		t.Fatalf("array growth mismatch (-want +got):\n%s", diff)
	}

	if _, err := v.With("items.-1", "x"); err == nil {
		t.Fatalf("expected negative index to fail")
	}
}

func TestValue_WithNumericSegments(t *testing.T) {
	cases := []struct {
		name  string
		start any
		path  string
		want  any
	}{
		{
			name:  "numeric key in an object stays a key",
			start: map[string]any{"codes": map[string]any{"1": "x"}},
			path:  "codes.1",
			want:  map[string]any{"codes": map[string]any{"1": "y"}},
		},
		{
			name:  "new numeric key in an object",
			start: map[string]any{"codes": map[string]any{"1": "x"}},
			path:  "codes.7",
			want:  map[string]any{"codes": map[string]any{"1": "x", "7": "y"}},
		},
		{
			name:  "index in an existing array",
			start: map[string]any{"items": []any{"a", "b"}},
			path:  "items.1",
			want:  map[string]any{"items": []any{"a", "y"}},
		},
		{
			name:  "append to an existing array",
			start: map[string]any{"items": []any{"a"}},
			path:  "items.1",
			want:  map[string]any{"items": []any{"a", "y"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Of(tc.start).With(tc.path, "y")
			if err != nil {
				t.Fatalf("with: %v", err)
			}
			if diff := cmp.Diff(tc.want, next.Interface()); diff != "" {
				t.Fatalf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValue_WithRejectsBadIndexes(t *testing.T) {
	list := Of(map[string]any{"items": []any{"a"}})

	if _, err := list.With("items.name", "x"); err == nil {
		t.Fatalf("expected a non-numeric segment on an array to fail")
	}
	if _, err := list.With("items.99999999999", "x"); err == nil {
		t.Fatalf("expected a far out of range index to fail")
	}
	if _, err := Undefined().With("a.99999999999", "x"); err == nil {
		t.Fatalf("expected a far out of range index to fail on a missing array")
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON([]byte(`{"a": 1}`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Fatalf("unexpected encoding %s", out)
	}
	undefined, _ := Undefined().MarshalJSON()
	if string(undefined) != "null" {
		t.Fatalf("undefined should encode as null, got %s", undefined)
	}
}
