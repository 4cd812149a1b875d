package testsupport

import (
	"context"

	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// RecordingRenderer is a form.Renderer that records the states it renders
// and, when Edits is set, reports each edit as a change event.
type RecordingRenderer struct {
	ID    string
	Edits []jsonvalue.Value

	Rendered []state.FormState
}

var _ form.Renderer = (*RecordingRenderer)(nil)

func (r *RecordingRenderer) Name() string {
	if r.ID == "" {
		return "recording"
	}
	return r.ID
}

func (r *RecordingRenderer) Render(ctx context.Context, s state.FormState, validator *validation.Validator, onChange form.ChangeFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Rendered = append(r.Rendered, s.Clone())
	for _, data := range r.Edits {
		if onChange != nil {
			onChange(form.Change(s, validator, data))
		}
	}
	return nil
}
