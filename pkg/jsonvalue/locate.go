package jsonvalue

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errLocated = errors.New("located")

// SplitPointer decodes an RFC 6901 JSON pointer into its reference tokens.
// The empty pointer addresses the whole document.
func SplitPointer(pointer string) []string {
	if pointer == "" {
		return nil
	}
	trimmed := strings.TrimPrefix(pointer, "/")
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

// Locate returns the 1-based line and column where the value addressed by
// pointer starts in text. It reports false when text is not valid JSON or the
// pointer does not resolve.
func Locate(text, pointer string) (int, int, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	l := &locator{dec: dec, text: text, target: SplitPointer(pointer), found: -1}

	if err := l.value(nil); !errors.Is(err, errLocated) {
		return 0, 0, false
	}
	line, col := Position(text, l.found)
	return line, col, true
}

type locator struct {
	dec    *json.Decoder
	text   string
	target []string
	found  int64
}

func (l *locator) value(path []string) error {
	start := l.skip(l.dec.InputOffset())
	if samePath(path, l.target) {
		l.found = start
		return errLocated
	}

	tok, err := l.dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		for l.dec.More() {
			keyTok, err := l.dec.Token()
			if err != nil {
				return err
			}
			key, _ := keyTok.(string)
			if err := l.value(childPath(path, key)); err != nil {
				return err
			}
		}
	case '[':
		for idx := 0; l.dec.More(); idx++ {
			if err := l.value(childPath(path, strconv.Itoa(idx))); err != nil {
				return err
			}
		}
	}
	_, err = l.dec.Token()
	return err
}

func (l *locator) skip(offset int64) int64 {
	for offset < int64(len(l.text)) {
		switch l.text[offset] {
		case ' ', '\t', '\n', '\r', ',', ':':
			offset++
		default:
			return offset
		}
	}
	return offset
}

func childPath(path []string, segment string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = segment
	return out
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
