package state

import (
	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// I18n carries the active locale and the translation bundle.
type I18n struct {
	Locale       string
	Translations jsonvalue.Value
}

// FormState is what the form renderer consumes. It always derives from one
// example (named by Example) plus Settings.
type FormState struct {
	Example          string
	Data             jsonvalue.Value
	Schema           jsonvalue.Value
	UISchema         jsonvalue.Value
	UISchemas        map[string]jsonvalue.Value
	Actions          []catalog.Action
	Renderers        []string
	Config           map[string]any
	Readonly         bool
	ValidationMode   validation.Mode
	I18n             I18n
	AdditionalErrors []validation.Issue
}

// Settings are the process-wide defaults applied to every derived state.
type Settings struct {
	Renderers      []string
	Config         map[string]any
	Readonly       bool
	ValidationMode validation.Mode
	Locale         string
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Renderers:      []string{"tui"},
		ValidationMode: validation.ModeValidateAndShow,
		Locale:         "en",
	}
}

// Derive builds the state for example from scratch. Nothing from a previous
// state carries over.
func Derive(example catalog.Example, settings Settings) FormState {
	mode := settings.ValidationMode
	if mode == "" {
		mode = validation.ModeValidateAndShow
	}
	return FormState{
		Example:        example.Name,
		Data:           example.Data.Clone(),
		Schema:         example.Schema.Clone(),
		UISchema:       example.UISchema.Clone(),
		UISchemas:      catalog.CloneUISchemas(example.UISchemas),
		Actions:        example.Clone().Actions,
		Renderers:      append([]string(nil), settings.Renderers...),
		Config:         cloneConfig(settings.Config),
		Readonly:       settings.Readonly,
		ValidationMode: mode,
		I18n: I18n{
			Locale:       settings.Locale,
			Translations: example.I18n.Clone(),
		},
	}
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	out := s
	out.Renderers = append([]string(nil), s.Renderers...)
	out.Config = cloneConfig(s.Config)
	return out
}

// Clone returns a deep copy.
func (s FormState) Clone() FormState {
	out := s
	out.Data = s.Data.Clone()
	out.Schema = s.Schema.Clone()
	out.UISchema = s.UISchema.Clone()
	out.UISchemas = catalog.CloneUISchemas(s.UISchemas)
	if s.Actions != nil {
		out.Actions = make([]catalog.Action, len(s.Actions))
		for i, action := range s.Actions {
			out.Actions[i] = action.Clone()
		}
	}
	out.Renderers = append([]string(nil), s.Renderers...)
	out.Config = cloneConfig(s.Config)
	out.I18n.Translations = s.I18n.Translations.Clone()
	out.AdditionalErrors = append([]validation.Issue(nil), s.AdditionalErrors...)
	return out
}

// Translate looks up a dotted key in the translation bundle.
func (s FormState) Translate(key string) (string, bool) {
	raw, ok := s.I18n.Translations.Get(key)
	if !ok {
		return "", false
	}
	text, ok := raw.(string)
	return text, ok
}

func cloneConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	cloned, _ := jsonvalue.Of(src).Clone().Object()
	return cloned
}
