package jsonvalue

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Object(t *testing.T) {
	v, err := Parse(`{"name": "Ada", "age": 36, "tags": ["a", "b"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{
		"name": "Ada",
		"age":  json.Number("36"),
		"tags": []any{"a", "b"},
	}
	if diff := cmp.Diff(want, v.Interface()); diff != "" {
		t.Fatalf("parsed value mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		line   int
		column int
	}{
		{name: "empty", text: "", line: 1, column: 1},
		{name: "unterminated", text: "{invalid", line: 1, column: 2},
		{name: "truncated", text: "{\n  \"a\": 1", line: 2, column: 9},
		{name: "trailing", text: "{} {}", line: 1, column: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("expected error for %q", tt.text)
			}
			var syntax *SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("expected SyntaxError, got %T", err)
			}
			if syntax.Line != tt.line || syntax.Column != tt.column {
				t.Fatalf("position = %d:%d, want %d:%d (%v)", syntax.Line, syntax.Column, tt.line, tt.column, err)
			}
		})
	}
}

func TestParseOptional_Blank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		v, err := ParseOptional(text)
		if err != nil {
			t.Fatalf("parse optional %q: %v", text, err)
		}
		if v.Defined() {
			t.Fatalf("expected undefined for %q", text)
		}
	}

	v, err := ParseOptional("null")
	if err != nil {
		t.Fatalf("parse null: %v", err)
	}
	if !v.Defined() || !v.IsNull() {
		t.Fatalf("expected explicit null to stay defined")
	}
}

func TestPretty_Deterministic(t *testing.T) {
	v, err := Parse(`{"b": 1, "a": {"d": "<x>", "c": [1.50, true, null]}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "{\n  \"a\": {\n    \"c\": [\n      1.50,\n      true,\n      null\n    ],\n    \"d\": \"<x>\"\n  },\n  \"b\": 1\n}"
	first := Pretty(v)
	if first != want {
		t.Fatalf("pretty mismatch\nwant: %q\n got: %q", want, first)
	}

	again, err := Parse(first)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if second := Pretty(again); second != first {
		t.Fatalf("expected byte-identical output\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestPretty_Undefined(t *testing.T) {
	if got := Pretty(Undefined()); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if got := Pretty(Null()); got != "null" {
		t.Fatalf("expected null text, got %q", got)
	}
}

func TestFrom_NormalizesNumbers(t *testing.T) {
	v, err := From(map[string]any{"count": 3, "ratio": 0.5})
	if err != nil {
		t.Fatalf("from: %v", err)
	}
	parsed, err := Parse(`{"count": 3, "ratio": 0.5}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !v.Equal(parsed) {
		t.Fatalf("expected normalized value to equal parsed value: %#v vs %#v", v.Interface(), parsed.Interface())
	}
}
