package schemacatalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

// Completion is one property suggestion.
type Completion struct {
	Label    string
	Detail   string
	Doc      string
	Required bool
}

const maxRefDepth = 32

// Complete suggests the property names available at pointer in a document
// opened under fileURI, based on the first matching association that carries
// a schema document.
func (r *Registry) Complete(fileURI, pointer string) []Completion {
	for _, e := range r.matching(fileURI) {
		root, ok := e.association.Schema.Object()
		if !ok {
			continue
		}
		node := resolve(root, root, 0)
		for _, segment := range jsonvalue.SplitPointer(pointer) {
			node = descend(root, node, segment)
			if node == nil {
				return nil
			}
		}
		return propertyCompletions(node)
	}
	return nil
}

func descend(root, node map[string]any, segment string) map[string]any {
	if props, ok := node["properties"].(map[string]any); ok {
		if child, ok := props[segment].(map[string]any); ok {
			return resolve(root, child, 0)
		}
	}
	if _, err := strconv.Atoi(segment); err == nil {
		if items, ok := node["items"].(map[string]any); ok {
			return resolve(root, items, 0)
		}
	}
	if extra, ok := node["additionalProperties"].(map[string]any); ok {
		return resolve(root, extra, 0)
	}
	return nil
}

// resolve follows local "$ref" pointers.
func resolve(root, node map[string]any, depth int) map[string]any {
	ref, ok := node["$ref"].(string)
	if !ok || depth > maxRefDepth || !strings.HasPrefix(ref, "#") {
		return node
	}
	var target any = root
	for _, segment := range jsonvalue.SplitPointer(strings.TrimPrefix(ref, "#")) {
		obj, ok := target.(map[string]any)
		if !ok {
			return node
		}
		target = obj[segment]
	}
	resolved, ok := target.(map[string]any)
	if !ok {
		return node
	}
	return resolve(root, resolved, depth+1)
}

func propertyCompletions(node map[string]any) []Completion {
	props, ok := node["properties"].(map[string]any)
	if !ok {
		return nil
	}
	required := map[string]bool{}
	if list, ok := node["required"].([]any); ok {
		for _, name := range list {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	out := make([]Completion, 0, len(props))
	for name, raw := range props {
		item := Completion{Label: name, Required: required[name]}
		if prop, ok := raw.(map[string]any); ok {
			item.Detail = typeLabel(prop["type"])
			if title, ok := prop["title"].(string); ok {
				item.Doc = title
			} else if desc, ok := prop["description"].(string); ok {
				item.Doc = desc
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func typeLabel(raw any) string {
	switch typed := raw.(type) {
	case string:
		return typed
	case []any:
		parts := make([]string, 0, len(typed))
		for _, part := range typed {
			if s, ok := part.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " | ")
	default:
		return ""
	}
}
