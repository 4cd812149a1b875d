package state

import (
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Field names reported in change notifications.
const (
	FieldData             = "data"
	FieldSchema           = "schema"
	FieldUISchema         = "uischema"
	FieldUISchemas        = "uischemas"
	FieldRenderers        = "renderers"
	FieldConfig           = "config"
	FieldReadonly         = "readonly"
	FieldValidationMode   = "validationMode"
	FieldLocale           = "locale"
	FieldTranslations     = "translations"
	FieldAdditionalErrors = "additionalErrors"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Data             *jsonvalue.Value
	Schema           *jsonvalue.Value
	UISchema         *jsonvalue.Value
	UISchemas        *map[string]jsonvalue.Value
	Renderers        *[]string
	Config           *map[string]any
	Readonly         *bool
	ValidationMode   *validation.Mode
	Locale           *string
	Translations     *jsonvalue.Value
	AdditionalErrors *[]validation.Issue
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the names of the fields the patch sets.
func (p Patch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Data != nil, FieldData)
	add(p.Schema != nil, FieldSchema)
	add(p.UISchema != nil, FieldUISchema)
	add(p.UISchemas != nil, FieldUISchemas)
	add(p.Renderers != nil, FieldRenderers)
	add(p.Config != nil, FieldConfig)
	add(p.Readonly != nil, FieldReadonly)
	add(p.ValidationMode != nil, FieldValidationMode)
	add(p.Locale != nil, FieldLocale)
	add(p.Translations != nil, FieldTranslations)
	add(p.AdditionalErrors != nil, FieldAdditionalErrors)
	return out
}

// ApplyTo returns s with the patch merged in field by field.
func (p Patch) ApplyTo(s FormState) FormState {
	out := s.Clone()
	if p.Data != nil {
		out.Data = p.Data.Clone()
	}
	if p.Schema != nil {
		out.Schema = p.Schema.Clone()
	}
	if p.UISchema != nil {
		out.UISchema = p.UISchema.Clone()
	}
	if p.UISchemas != nil {
		out.UISchemas = FormState{UISchemas: *p.UISchemas}.Clone().UISchemas
	}
	if p.Renderers != nil {
		out.Renderers = append([]string(nil), (*p.Renderers)...)
	}
	if p.Config != nil {
		out.Config = cloneConfig(*p.Config)
	}
	if p.Readonly != nil {
		out.Readonly = *p.Readonly
	}
	if p.ValidationMode != nil {
		out.ValidationMode = *p.ValidationMode
	}
	if p.Locale != nil {
		out.I18n.Locale = *p.Locale
	}
	if p.Translations != nil {
		out.I18n.Translations = p.Translations.Clone()
	}
	if p.AdditionalErrors != nil {
		out.AdditionalErrors = append([]validation.Issue(nil), (*p.AdditionalErrors)...)
	}
	return out
}

// Merge combines two patches; fields set in other win.
func (p Patch) Merge(other Patch) Patch {
	out := p
	if other.Data != nil {
		out.Data = other.Data
	}
	if other.Schema != nil {
		out.Schema = other.Schema
	}
	if other.UISchema != nil {
		out.UISchema = other.UISchema
	}
	if other.UISchemas != nil {
		out.UISchemas = other.UISchemas
	}
	if other.Renderers != nil {
		out.Renderers = other.Renderers
	}
	if other.Config != nil {
		out.Config = other.Config
	}
	if other.Readonly != nil {
		out.Readonly = other.Readonly
	}
	if other.ValidationMode != nil {
		out.ValidationMode = other.ValidationMode
	}
	if other.Locale != nil {
		out.Locale = other.Locale
	}
	if other.Translations != nil {
		out.Translations = other.Translations
	}
	if other.AdditionalErrors != nil {
		out.AdditionalErrors = other.AdditionalErrors
	}
	return out
}

// ApplySettings is a patch that sets every process-wide field from settings.
func ApplySettings(settings Settings) Patch {
	mode := settings.ValidationMode
	if mode == "" {
		mode = validation.ModeValidateAndShow
	}
	renderers := append([]string(nil), settings.Renderers...)
	config := cloneConfig(settings.Config)
	readonly := settings.Readonly
	locale := settings.Locale
	return Patch{
		Renderers:      &renderers,
		Config:         &config,
		Readonly:       &readonly,
		ValidationMode: &mode,
		Locale:         &locale,
	}
}

// SetData is a patch that replaces Data.
func SetData(value jsonvalue.Value) Patch {
	return Patch{Data: &value}
}

// SetSchema is a patch that replaces Schema.
func SetSchema(value jsonvalue.Value) Patch {
	return Patch{Schema: &value}
}

// SetUISchema is a patch that replaces UISchema.
func SetUISchema(value jsonvalue.Value) Patch {
	return Patch{UISchema: &value}
}

// SetTranslations is a patch that replaces the translation bundle.
func SetTranslations(value jsonvalue.Value) Patch {
	return Patch{Translations: &value}
}

// SetReadonly is a patch that toggles read-only rendering.
func SetReadonly(readonly bool) Patch {
	return Patch{Readonly: &readonly}
}

// SetValidationMode is a patch that changes the validation mode.
func SetValidationMode(mode validation.Mode) Patch {
	return Patch{ValidationMode: &mode}
}

// SetLocale is a patch that changes the active locale.
func SetLocale(locale string) Patch {
	return Patch{Locale: &locale}
}

// SetConfig is a patch that replaces the renderer configuration.
func SetConfig(config map[string]any) Patch {
	return Patch{Config: &config}
}

// SetAdditionalErrors is a patch that replaces the extra issues.
func SetAdditionalErrors(issues []validation.Issue) Patch {
	return Patch{AdditionalErrors: &issues}
}
