package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

const (
	componentRefPrefix  = "#/components/schemas/"
	definitionRefPrefix = "#/definitions/"
)

// FromOpenAPI turns the component schemas of an OpenAPI 3 document (JSON or
// YAML) into examples. Each schema becomes one example named after its
// component key; the schema title becomes the label and the schema-level
// example, when present, the initial data. References between components are
// rewritten to draft-07 definitions so every schema compiles on its own.
func FromOpenAPI(ctx context.Context, data []byte) ([]Example, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("catalog: openapi document is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name, ref := range doc.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	definitions := make(map[string]any, len(names))
	referencing := make(map[string]bool, len(names))
	for _, name := range names {
		payload, err := json.Marshal(doc.Components.Schemas[name].Value)
		if err != nil {
			return nil, fmt.Errorf("catalog: encode component %q: %w", name, err)
		}
		parsed, err := jsonvalue.Parse(string(payload))
		if err != nil {
			return nil, fmt.Errorf("catalog: decode component %q: %w", name, err)
		}
		rewritten, found := rewriteRefs(parsed.Interface())
		definitions[name] = rewritten
		referencing[name] = found
	}

	out := make([]Example, 0, len(names))
	for _, name := range names {
		schema := doc.Components.Schemas[name].Value

		root := jsonvalue.Of(definitions[name]).Clone()
		if referencing[name] {
			if obj, ok := root.Object(); ok {
				obj["definitions"] = jsonvalue.Of(definitions).Clone().Interface()
			}
		}

		example := Example{
			Name:   name,
			Label:  SanitizeLabel(schema.Title),
			Schema: root,
		}
		if schema.Example != nil {
			if example.Data, err = jsonvalue.From(schema.Example); err != nil {
				return nil, fmt.Errorf("catalog: component %q example: %w", name, err)
			}
		}
		out = append(out, example)
	}
	return out, nil
}

// rewriteRefs points component references at draft-07 definitions and reports
// whether any were found.
func rewriteRefs(node any) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		found := false
		for key, value := range typed {
			if key == "$ref" {
				if ref, ok := value.(string); ok && strings.HasPrefix(ref, componentRefPrefix) {
					typed[key] = definitionRefPrefix + strings.TrimPrefix(ref, componentRefPrefix)
					found = true
				}
				continue
			}
			next, nested := rewriteRefs(value)
			typed[key] = next
			found = found || nested
		}
		return typed, found
	case []any:
		found := false
		for i, value := range typed {
			next, nested := rewriteRefs(value)
			typed[i] = next
			found = found || nested
		}
		return typed, found
	default:
		return node, false
	}
}
