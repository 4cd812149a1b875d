package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Indent is the indentation used by Pretty.
const Indent = "  "

// SyntaxError reports invalid JSON text with its position.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

// Parse decodes exactly one JSON document. Empty text is a syntax error.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return Value{}, syntaxError(text, err, dec.InputOffset())
	}
	end := dec.InputOffset()
	if _, err := dec.Token(); err != io.EOF {
		offset := skipSpace(text, end)
		return Value{}, newSyntaxError(text, "invalid character after top-level value", offset)
	}
	return Of(out), nil
}

// ParseOptional behaves like Parse except that blank text decodes to an
// undefined document instead of failing.
func ParseOptional(text string) (Value, error) {
	if strings.TrimSpace(text) == "" {
		return Undefined(), nil
	}
	return Parse(text)
}

// Pretty serializes v with a fixed two-space indent, sorted object keys and
// no HTML escaping. Undefined documents serialize to the empty string. Values
// produced by Parse or From always serialize; anything else that fails to
// encode also yields the empty string.
func Pretty(v Value) string {
	text, err := Marshal(v)
	if err != nil {
		return ""
	}
	return text
}

// Marshal is Pretty with the encoding error exposed.
func Marshal(v Value) (string, error) {
	if !v.Defined() {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v.raw); err != nil {
		return "", fmt.Errorf("jsonvalue: encode: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func syntaxError(text string, err error, fallback int64) error {
	var syntax *json.SyntaxError
	switch {
	case errors.As(err, &syntax):
		// Offset counts the offending byte; point at it instead of past it.
		offset := syntax.Offset - 1
		if offset < 0 {
			offset = 0
		}
		return newSyntaxError(text, strings.TrimPrefix(syntax.Error(), "json: "), offset)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return newSyntaxError(text, "unexpected end of JSON input", int64(len(text)))
	default:
		return newSyntaxError(text, strings.TrimPrefix(err.Error(), "json: "), fallback)
	}
}

func newSyntaxError(text, msg string, offset int64) *SyntaxError {
	line, col := Position(text, offset)
	return &SyntaxError{Msg: msg, Offset: offset, Line: line, Column: col}
}

func skipSpace(text string, offset int64) int64 {
	for offset < int64(len(text)) {
		switch text[offset] {
		case ' ', '\t', '\n', '\r':
			offset++
		default:
			return offset
		}
	}
	return offset
}

// Position converts a byte offset into a 1-based line and column.
func Position(text string, offset int64) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
