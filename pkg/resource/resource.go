package resource

import "strings"

// Kind enumerates the editable artifacts of an example.
type Kind string

const (
	KindSchema   Kind = "schema"
	KindUISchema Kind = "uischema"
	KindData     Kind = "data"
	KindI18n     Kind = "i18n"
)

// Naming globs matched by the editor against buffer URIs.
const (
	SchemaGlob   = "*." + string(KindSchema) + extension
	UISchemaGlob = "*." + string(KindUISchema) + extension
	DataGlob     = "*." + string(KindData) + extension
)

const extension = ".json"

// Kinds returns the editable kinds in display order.
func Kinds() []Kind {
	return []Kind{KindSchema, KindUISchema, KindData, KindI18n}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSchema, KindUISchema, KindData, KindI18n:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Title returns a display label for the kind.
func (k Kind) Title() string {
	switch k {
	case KindSchema:
		return "Schema"
	case KindUISchema:
		return "UI Schema"
	case KindData:
		return "Data"
	case KindI18n:
		return "i18n"
	default:
		return string(k)
	}
}

// URI returns "{exampleID}.{kind}.json". Any exampleID is accepted.
func URI(exampleID string, kind Kind) string {
	return exampleID + "." + string(kind) + extension
}

// Parse splits a URI produced by URI back into its example id and kind. The
// example id may itself contain dots; the kind is always the last segment
// before the extension.
func Parse(uri string) (string, Kind, bool) {
	base := uri
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if !strings.HasSuffix(base, extension) {
		return "", "", false
	}
	stem := strings.TrimSuffix(base, extension)
	idx := strings.LastIndex(stem, ".")
	if idx <= 0 {
		return "", "", false
	}
	kind := Kind(stem[idx+1:])
	if !kind.Valid() {
		return "", "", false
	}
	return stem[:idx], kind, true
}

// ExampleURIs returns the URIs of every kind for exampleID, keyed by kind.
func ExampleURIs(exampleID string) map[Kind]string {
	out := make(map[Kind]string, 4)
	for _, kind := range Kinds() {
		out[kind] = URI(exampleID, kind)
	}
	return out
}
