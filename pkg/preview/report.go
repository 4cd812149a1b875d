package preview

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Report is the template view of a form state.
type Report struct {
	Title      string       `json:"title"`
	Rule       string       `json:"rule"`
	Example    string       `json:"example"`
	Locale     string       `json:"locale"`
	Mode       string       `json:"mode"`
	Readonly   bool         `json:"readonly"`
	Fields     []FieldView  `json:"fields"`
	FormErrors []string     `json:"form_errors,omitempty"`
	Actions    []ActionView `json:"actions,omitempty"`
	Data       string       `json:"data"`
	IssueCount int          `json:"issue_count"`
	Hidden     bool         `json:"hidden"`
}

// FieldView is one field with its current value and displayed messages.
type FieldView struct {
	Path     string   `json:"path"`
	Label    string   `json:"label"`
	Type     string   `json:"type,omitempty"`
	Required bool     `json:"required"`
	Readonly bool     `json:"readonly"`
	Value    string   `json:"value"`
	Errors   []string `json:"errors,omitempty"`
}

// ActionView lists one example action.
type ActionView struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// BuildReport lays out s for display. errs is the validation result for the
// state's data; it is filtered through the validation mode.
func BuildReport(title string, s state.FormState, errs validation.ErrorSet) Report {
	if strings.TrimSpace(title) == "" {
		title = form.Humanize(s.Example)
	}
	mapping := form.MapErrors(s, errs)

	report := Report{
		Title:      title,
		Rule:       strings.Repeat("=", len([]rune(title))),
		Example:    s.Example,
		Locale:     s.I18n.Locale,
		Mode:       string(s.ValidationMode),
		Readonly:   s.Readonly,
		Fields:     []FieldView{},
		FormErrors: mapping.Form,
		Data:       jsonvalue.Pretty(s.Data),
		IssueCount: len(errs) + len(s.AdditionalErrors),
		Hidden:     len(errs) > 0 && !s.ValidationMode.Shows(),
	}
	if report.Data == "" {
		report.Data = "(undefined)"
	}

	for _, field := range form.Fields(s) {
		value, _ := s.Data.Get(field.Path)
		report.Fields = append(report.Fields, FieldView{
			Path:     field.Path,
			Label:    field.Label,
			Type:     field.Type,
			Required: field.Required,
			Readonly: field.Readonly,
			Value:    formatValue(value),
			Errors:   mapping.Fields[field.Path],
		})
	}

	for _, action := range s.Actions {
		report.Actions = append(report.Actions, ActionView{Label: action.Label, Command: action.Command})
	}
	return report
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "-"
	case string:
		return fmt.Sprintf("%q", typed)
	case map[string]any, []any:
		text, err := jsonvalue.Marshal(jsonvalue.Of(typed))
		if err != nil {
			return fmt.Sprint(typed)
		}
		return strings.Join(strings.Fields(text), " ")
	default:
		return fmt.Sprint(typed)
	}
}
