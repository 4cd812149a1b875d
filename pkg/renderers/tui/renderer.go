package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// Name is the identifier the renderer registers under.
const Name = "tui"

// Renderer implements form.Renderer for terminal sessions. Fields are
// prompted one at a time in layout order; every edited field produces a
// change event carrying the whole data document and its error set.
type Renderer struct {
	driver  PromptDriver
	widgets *widgets.Registry
	theme   Theme
	logger  *slog.Logger
}

var _ form.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. Without WithPromptDriver it talks to the
// terminal through survey.
func New(options ...Option) *Renderer {
	r := &Renderer{
		widgets: widgets.NewRegistry(),
		theme:   DefaultTheme(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// Render walks the fields of s. Readonly fields are printed, not prompted.
// Validation messages are printed before the field they belong to unless the
// validation mode hides them.
func (r *Renderer) Render(ctx context.Context, s state.FormState, validator *validation.Validator, onChange form.ChangeFunc) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.driver == nil {
		return ErrNoDriver
	}

	fields := form.Fields(s)
	if len(fields) == 0 {
		r.info(ctx, "Nothing to fill in: the schema defines no fields")
		return nil
	}

	data := s.Data
	mapping := form.MapErrors(s, form.Validate(validator, s.ValidationMode, data))
	for _, message := range mapping.Form {
		r.error(ctx, message)
	}

	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, _ := data.Get(field.Path)
		if field.Readonly {
			r.info(ctx, fmt.Sprintf("%s: %s", fieldLabel(field), displayValue(current)))
			continue
		}
		for _, message := range mapping.Fields[field.Path] {
			r.error(ctx, fmt.Sprintf("%s: %s", fieldLabel(field), message))
		}

		value, changed, err := r.promptField(ctx, field, current)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}

		next, err := data.With(field.Path, value)
		if err != nil {
			return fmt.Errorf("tui: set %s: %w", field.Path, err)
		}
		data = next

		event := form.Change(s, validator, data)
		mapping = form.MapErrors(s, event.Errors)
		r.logger.Debug("tui field changed", "field", field.Path, "errors", len(event.Errors))
		if onChange != nil {
			onChange(event)
		}
		for _, message := range mapping.Fields[field.Path] {
			r.error(ctx, fmt.Sprintf("%s: %s", fieldLabel(field), message))
		}
	}
	return nil
}

// promptField asks for one value with the prompt of the field's widget. It
// reports changed=false when the answer leaves the data as it was.
func (r *Renderer) promptField(ctx context.Context, field form.Field, current any) (any, bool, error) {
	widget := r.widgets.Resolve(field)
	r.logger.Debug("tui prompt", "field", field.Path, "widget", widget)

	switch widget {
	case widgets.WidgetSelect:
		if len(field.Enum) > 0 {
			return r.promptEnum(ctx, field, current)
		}
	case widgets.WidgetToggle:
		return r.promptBoolean(ctx, field, current)
	case widgets.WidgetNumber:
		return r.promptNumber(ctx, field, current)
	case widgets.WidgetJSONEditor:
		return r.promptJSON(ctx, field, current)
	}
	return r.promptString(ctx, field, current, widget)
}

func (r *Renderer) promptString(ctx context.Context, field form.Field, current any, widget string) (any, bool, error) {
	cfg := InputConfig{
		Message: promptLabel(field),
		Default: stringValue(current),
		Help:    field.Description,
	}

	var (
		answer string
		err    error
	)
	switch widget {
	case widgets.WidgetPassword:
		answer, err = r.driver.Password(ctx, cfg)
	case widgets.WidgetMultiline:
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: cfg.Message,
			Default: cfg.Default,
			Help:    cfg.Help,
		})
		answer = strings.TrimRight(answer, "\n")
	default:
		answer, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return nil, false, err
	}

	if current == nil && answer == "" {
		return nil, false, nil
	}
	if existing, ok := current.(string); ok && existing == answer {
		return nil, false, nil
	}
	return answer, true, nil
}

func (r *Renderer) promptBoolean(ctx context.Context, field form.Field, current any) (any, bool, error) {
	existing, isBool := current.(bool)
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: promptLabel(field),
		Default: existing,
		Help:    field.Description,
	})
	if err != nil {
		return nil, false, err
	}
	if isBool && existing == answer {
		return nil, false, nil
	}
	return answer, true, nil
}

func (r *Renderer) promptNumber(ctx context.Context, field form.Field, current any) (any, bool, error) {
	defaultStr := ""
	if current != nil {
		defaultStr = fmt.Sprint(current)
	}

	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: defaultStr,
			Help:    field.Description,
		})
		if err != nil {
			return nil, false, err
		}

		input = strings.TrimSpace(input)
		if input == "" || input == defaultStr {
			return nil, false, nil
		}

		parsed, err := parseNumber(input, field.Type == "integer")
		if err != nil {
			r.error(ctx, fmt.Sprintf("Invalid %s: %v", field.Path, err))
			continue
		}
		return parsed, true, nil
	}
}

func (r *Renderer) promptEnum(ctx context.Context, field form.Field, current any) (any, bool, error) {
	options := field.Enum
	defaultIdx := -1
	if current != nil {
		defaultIdx = indexOf(options, fmt.Sprint(current))
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(options) {
			r.error(ctx, fmt.Sprintf("Invalid %s selection", field.Path))
			continue
		}
		if idx == defaultIdx {
			return nil, false, nil
		}
		return enumValue(field.Type, options[idx]), true, nil
	}
}

func (r *Renderer) promptJSON(ctx context.Context, field form.Field, current any) (any, bool, error) {
	existing := jsonvalue.Undefined()
	if current != nil {
		existing = jsonvalue.Of(current)
	}

	for {
		input, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(field) + " (JSON)",
			Default: jsonvalue.Pretty(existing),
			Help:    field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(input) == "" {
			return nil, false, nil
		}

		parsed, err := jsonvalue.Parse(input)
		if err != nil {
			r.error(ctx, fmt.Sprintf("Invalid %s: %v", field.Path, err))
			continue
		}
		if parsed.Equal(existing) {
			return nil, false, nil
		}
		return parsed.Interface(), true, nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) error(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func fieldLabel(field form.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Path
}

func promptLabel(field form.Field) string {
	label := fieldLabel(field)
	if field.Group != "" {
		label = field.Group + " / " + label
	}
	if field.Required {
		label += " *"
	}
	return label
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func displayValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "-"
	case map[string]any, []any:
		payload, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(payload)
	default:
		return fmt.Sprint(typed)
	}
}

// parseNumber keeps the literal as typed so the data document stores it
// exactly.
func parseNumber(raw string, integer bool) (json.Number, error) {
	if integer {
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return "", fmt.Errorf("%q is not an integer", raw)
		}
		return json.Number(raw), nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", fmt.Errorf("%q is not a number", raw)
	}
	return json.Number(raw), nil
}

func enumValue(fieldType, option string) any {
	switch fieldType {
	case "integer", "number":
		if _, err := strconv.ParseFloat(option, 64); err == nil {
			return json.Number(option)
		}
	case "boolean":
		if parsed, err := strconv.ParseBool(option); err == nil {
			return parsed
		}
	}
	return option
}
