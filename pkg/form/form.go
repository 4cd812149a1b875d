// Package form defines the contract between the synchronization engine and
// the form renderers that display a FormState, along with the helpers those
// renderers share: field layout from schema and UI schema, validation that
// honours the validation mode, and error grouping.
package form

import (
	"context"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// ChangeEvent is emitted by a renderer whenever the user changes the data.
// Errors is the complete error set for Data.
type ChangeEvent struct {
	Data   jsonvalue.Value
	Errors validation.ErrorSet
}

// ChangeFunc receives change events.
type ChangeFunc func(ChangeEvent)

// Renderer displays a FormState and reports edits through onChange.
type Renderer interface {
	Name() string
	Render(ctx context.Context, s state.FormState, validator *validation.Validator, onChange ChangeFunc) error
}

// Validate runs validator against data unless the mode disables validation.
// Hidden modes still validate; renderers decide what to display.
func Validate(validator *validation.Validator, mode validation.Mode, data jsonvalue.Value) validation.ErrorSet {
	if validator == nil || !mode.Validates() {
		return nil
	}
	return validator.Validate(data)
}

// Change builds the event for data, validating it per the state's mode.
func Change(s state.FormState, validator *validation.Validator, data jsonvalue.Value) ChangeEvent {
	return ChangeEvent{
		Data:   data,
		Errors: Validate(validator, s.ValidationMode, data),
	}
}
