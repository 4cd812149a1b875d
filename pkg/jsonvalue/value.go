package jsonvalue

import (
	"encoding/json"
	"reflect"
)

// Value is a JSON document that may be undefined. The zero value is
// undefined.
type Value struct {
	raw     any
	defined bool
}

// Undefined returns the absent document.
func Undefined() Value {
	return Value{}
}

// Null returns an explicit JSON null.
func Null() Value {
	return Value{defined: true}
}

// Of wraps a decoded JSON value (maps, slices, strings, json.Number, float64,
// bools or nil). Use From for values of unknown provenance.
func Of(raw any) Value {
	return Value{raw: raw, defined: true}
}

// From normalizes an arbitrary Go value (for example a YAML decoded map) by
// round-tripping it through encoding/json.
func From(raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		return v, nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return Value{}, err
	}
	return Parse(string(payload))
}

// Defined reports whether the document is present. A JSON null is defined.
func (v Value) Defined() bool {
	return v.defined
}

// IsNull reports whether the document is an explicit JSON null.
func (v Value) IsNull() bool {
	return v.defined && v.raw == nil
}

// Interface returns the decoded value, or nil when undefined.
func (v Value) Interface() any {
	return v.raw
}

// Object returns the document as a JSON object when it is one.
func (v Value) Object() (map[string]any, bool) {
	obj, ok := v.raw.(map[string]any)
	return obj, ok && v.defined
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	if !v.defined {
		return Value{}
	}
	return Value{raw: deepCopy(v.raw), defined: true}
}

// Equal compares two documents structurally.
func (v Value) Equal(other Value) bool {
	if v.defined != other.defined {
		return false
	}
	if !v.defined {
		return true
	}
	return reflect.DeepEqual(v.raw, other.raw)
}

// Get resolves a dotted path (object keys and array indices).
func (v Value) Get(path string) (any, bool) {
	if !v.defined {
		return nil, false
	}
	if path == "" {
		return v.raw, true
	}
	return GetPath(v.raw, path)
}

// With returns a copy of the document with value stored at the dotted path.
// Intermediate objects and arrays are created as needed.
func (v Value) With(path string, value any) (Value, error) {
	next, err := SetPath(v.raw, path, value)
	if err != nil {
		return Value{}, err
	}
	return Of(next), nil
}

// MarshalJSON encodes undefined as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes any JSON document, including null, as defined.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
