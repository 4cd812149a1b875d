package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
)

// LoadFS walks fsys and parses every JSON/YAML file as either a single example
// or a document with an "examples" list. Files are visited in lexical order,
// so catalog order is stable. A nil fsys yields an empty catalog.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	if fsys == nil {
		return New()
	}

	var examples []Example
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		examples = append(examples, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(examples...)
}

// Parse decodes one catalog file. JSON is attempted first, then YAML.
func Parse(data []byte, source string) ([]Example, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("catalog: file %s is empty", source)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: invalid JSON or YAML", source)
	}

	rawList, isList := doc["examples"]
	if !isList {
		example, err := normaliseExample(doc, source, 0)
		if err != nil {
			return nil, err
		}
		return []Example{example}, nil
	}

	entries, ok := rawList.([]any)
	if !ok {
		return nil, fmt.Errorf("catalog: file %s: examples must be a list", source)
	}
	out := make([]Example, 0, len(entries))
	for idx, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("catalog: file %s: examples[%d] must be an object", source, idx)
		}
		example, err := normaliseExample(obj, source, idx)
		if err != nil {
			return nil, err
		}
		out = append(out, example)
	}
	return out, nil
}

func decodeDocument(data []byte) (map[string]any, error) {
	if parsed, err := jsonvalue.Parse(string(data)); err == nil {
		if obj, ok := parsed.Object(); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("catalog: document must be an object")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("catalog: document must be an object")
	}
	return doc, nil
}

func normaliseExample(raw map[string]any, source string, idx int) (Example, error) {
	name, _ := raw["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return Example{}, fmt.Errorf("catalog: file %s entry %d has no name", source, idx)
	}

	label, _ := raw["label"].(string)
	example := Example{
		Name:  name,
		Label: SanitizeLabel(label),
	}

	var err error
	fields := []struct {
		key    string
		target *jsonvalue.Value
	}{
		{"schema", &example.Schema},
		{"uischema", &example.UISchema},
		{"data", &example.Data},
		{"i18n", &example.I18n},
	}
	for _, field := range fields {
		if *field.target, err = documentField(raw, field.key); err != nil {
			return Example{}, fmt.Errorf("catalog: example %q (file %s) %s: %w", name, source, field.key, err)
		}
	}

	if example.UISchemas, err = namedUISchemas(raw["uischemas"]); err != nil {
		return Example{}, fmt.Errorf("catalog: example %q (file %s) uischemas: %w", name, source, err)
	}
	if example.Actions, err = decodeActions(raw["actions"]); err != nil {
		return Example{}, fmt.Errorf("catalog: example %q (file %s) actions: %w", name, source, err)
	}
	return example, nil
}

// documentField keeps the difference between a missing key (undefined) and an
// explicit null.
func documentField(raw map[string]any, key string) (jsonvalue.Value, error) {
	value, present := raw[key]
	if !present {
		return jsonvalue.Undefined(), nil
	}
	return jsonvalue.From(value)
}

func namedUISchemas(raw any) (map[string]jsonvalue.Value, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object keyed by name")
	}
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]jsonvalue.Value, len(obj))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			return nil, fmt.Errorf("empty ui schema name")
		}
		value, err := jsonvalue.From(obj[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = value
	}
	return out, nil
}

func decodeActions(raw any) ([]Action, error) {
	if raw == nil {
		return nil, nil
	}
	normalised, err := jsonvalue.From(raw)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(normalised)
	if err != nil {
		return nil, err
	}

	var actions []Action
	if err := json.Unmarshal(payload, &actions); err != nil {
		return nil, fmt.Errorf("expected a list of actions: %w", err)
	}
	for idx := range actions {
		actions[idx].Label = SanitizeLabel(actions[idx].Label)
		actions[idx].Command = strings.TrimSpace(actions[idx].Command)
		if actions[idx].Command == "" {
			return nil, fmt.Errorf("action %d has no command", idx)
		}
		if actions[idx].Label == "" {
			actions[idx].Label = actions[idx].Command
		}
		if actions[idx].Params != nil {
			if params, err := jsonvalue.From(actions[idx].Params); err == nil {
				actions[idx].Params, _ = params.Object()
			}
		}
	}
	return actions, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
