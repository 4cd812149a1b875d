package actions

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Built-in command names.
const (
	CommandSetData           = "set-data"
	CommandMergeData         = "merge-data"
	CommandSetValue          = "set-value"
	CommandSetReadonly       = "set-readonly"
	CommandToggleReadonly    = "toggle-readonly"
	CommandSetValidationMode = "set-validation-mode"
	CommandSetLocale         = "set-locale"
	CommandSetUISchema       = "set-uischema"
	CommandSetConfig         = "set-config"
	CommandAddError          = "add-error"
	CommandClearErrors       = "clear-errors"
)

func builtins() map[string]Constructor {
	return map[string]Constructor{
		CommandSetData:           setData,
		CommandMergeData:         mergeData,
		CommandSetValue:          setValue,
		CommandSetReadonly:       setReadonly,
		CommandToggleReadonly:    toggleReadonly,
		CommandSetValidationMode: setValidationMode,
		CommandSetLocale:         setLocale,
		CommandSetUISchema:       setUISchema,
		CommandSetConfig:         setConfig,
		CommandAddError:          addError,
		CommandClearErrors:       clearErrors,
	}
}

// setData replaces the data document; a missing "data" param clears it.
func setData(params map[string]any) (Transform, error) {
	value := jsonvalue.Undefined()
	if raw, ok := params["data"]; ok {
		var err error
		if value, err = jsonvalue.From(raw); err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
	}
	return func(state.FormState) (state.Patch, error) {
		return state.SetData(value), nil
	}, nil
}

// mergeData shallow-merges an object into the data document.
func mergeData(params map[string]any) (Transform, error) {
	raw, err := jsonvalue.From(params["data"])
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	incoming, ok := raw.Object()
	if !ok {
		return nil, fmt.Errorf("data must be an object")
	}
	return func(s state.FormState) (state.Patch, error) {
		merged := map[string]any{}
		if current, ok := s.Data.Clone().Object(); ok {
			merged = current
		}
		for key, value := range jsonvalue.Of(incoming).Clone().Interface().(map[string]any) {
			merged[key] = value
		}
		return state.SetData(jsonvalue.Of(merged)), nil
	}, nil
}

// setValue stores one value at a dotted path inside the data document.
func setValue(params map[string]any) (Transform, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return nil, err
	}
	value, err := jsonvalue.From(params["value"])
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return func(s state.FormState) (state.Patch, error) {
		next, err := s.Data.With(path, value.Interface())
		if err != nil {
			return state.Patch{}, err
		}
		return state.SetData(next), nil
	}, nil
}

func setReadonly(params map[string]any) (Transform, error) {
	readonly, ok := params["readonly"].(bool)
	if !ok {
		return nil, fmt.Errorf("readonly must be a boolean")
	}
	return func(state.FormState) (state.Patch, error) {
		return state.SetReadonly(readonly), nil
	}, nil
}

func toggleReadonly(map[string]any) (Transform, error) {
	return func(s state.FormState) (state.Patch, error) {
		return state.SetReadonly(!s.Readonly), nil
	}, nil
}

func setValidationMode(params map[string]any) (Transform, error) {
	raw, err := stringParam(params, "mode")
	if err != nil {
		return nil, err
	}
	mode, ok := validation.ParseMode(raw)
	if !ok {
		return nil, fmt.Errorf("unknown validation mode %q", raw)
	}
	return func(state.FormState) (state.Patch, error) {
		return state.SetValidationMode(mode), nil
	}, nil
}

func setLocale(params map[string]any) (Transform, error) {
	locale, err := stringParam(params, "locale")
	if err != nil {
		return nil, err
	}
	return func(state.FormState) (state.Patch, error) {
		return state.SetLocale(locale), nil
	}, nil
}

// setUISchema switches to one of the example's named UI schemas.
func setUISchema(params map[string]any) (Transform, error) {
	name, err := stringParam(params, "name")
	if err != nil {
		return nil, err
	}
	return func(s state.FormState) (state.Patch, error) {
		alt, ok := s.UISchemas[name]
		if !ok {
			return state.Patch{}, fmt.Errorf("actions: ui schema %q is not defined for %q", name, s.Example)
		}
		return state.SetUISchema(alt), nil
	}, nil
}

// setConfig merges keys into the renderer configuration.
func setConfig(params map[string]any) (Transform, error) {
	raw, err := jsonvalue.From(params["config"])
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	incoming, ok := raw.Object()
	if !ok {
		return nil, fmt.Errorf("config must be an object")
	}
	return func(s state.FormState) (state.Patch, error) {
		merged := make(map[string]any, len(s.Config)+len(incoming))
		for key, value := range s.Config {
			merged[key] = value
		}
		for key, value := range incoming {
			merged[key] = value
		}
		return state.SetConfig(merged), nil
	}, nil
}

// addError appends a custom issue rendered next to the validation errors.
func addError(params map[string]any) (Transform, error) {
	message, err := stringParam(params, "message")
	if err != nil {
		return nil, err
	}
	path, _ := params["path"].(string)
	field := strings.TrimPrefix(strings.ReplaceAll(path, "/", "."), ".")
	issue := validation.Issue{Path: path, Field: field, Message: message, Keyword: "custom"}
	return func(s state.FormState) (state.Patch, error) {
		issues := append(append([]validation.Issue(nil), s.AdditionalErrors...), issue)
		return state.SetAdditionalErrors(issues), nil
	}, nil
}

func clearErrors(map[string]any) (Transform, error) {
	return func(s state.FormState) (state.Patch, error) {
		if len(s.AdditionalErrors) == 0 {
			return state.Patch{}, nil
		}
		return state.SetAdditionalErrors([]validation.Issue{}), nil
	}, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return strings.TrimSpace(value), nil
}
