package preview

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Name is the identifier the renderer registers under.
const Name = "preview"

// ReportTemplate names the embedded report template.
const ReportTemplate = "report"

// Renderer implements form.Renderer by printing a read-only report of the
// state. It never reports changes.
type Renderer struct {
	engine   *Engine
	out      io.Writer
	template string
	titles   func(example string) string
}

var _ form.Renderer = (*Renderer)(nil)

// Option configures the preview renderer.
type Option func(*Renderer)

// WithEngine replaces the template engine, for example one loading templates
// from disk.
func WithEngine(engine *Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithOutput sets the writer reports go to. Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithTemplate selects the template used for reports.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.template = name
		}
	}
}

// WithTitles resolves the report title of an example, typically its catalog
// label.
func WithTitles(fn func(example string) string) Option {
	return func(r *Renderer) {
		r.titles = fn
	}
}

// New constructs a preview renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:      os.Stdout,
		template: ReportTemplate,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// Render writes the report for s.
func (r *Renderer) Render(ctx context.Context, s state.FormState, validator *validation.Validator, _ form.ChangeFunc) error {
	if ctx == nil {
		return errors.New("preview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.Report(s, form.Validate(validator, s.ValidationMode, s.Data), r.out)
	return err
}

// Report renders the report for s and errs, copying it to out.
func (r *Renderer) Report(s state.FormState, errs validation.ErrorSet, out ...io.Writer) (string, error) {
	title := ""
	if r.titles != nil {
		title = r.titles(s.Example)
	}
	report := BuildReport(title, s, errs)
	return r.engine.RenderTemplate(r.template, map[string]any{"report": report}, out...)
}
