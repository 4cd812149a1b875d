// Package playground wires the synchronization engine together: the example
// catalog, the text buffers, the validation registry, the form state, the
// notifier, the synchronizer, the lifecycle controller, the action
// dispatcher and the form renderers. It is the composition root used by the
// CLI and by embedders that want the whole engine behind one value.
package playground

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-formstudio/pkg/actions"
	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/form"
	"github.com/goliatone/go-formstudio/pkg/lifecycle"
	"github.com/goliatone/go-formstudio/pkg/notify"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/schemacatalog"
	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/synchronizer"
	"github.com/goliatone/go-formstudio/pkg/textmodel"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// ErrNoExamples is returned when the catalog is empty.
var ErrNoExamples = errors.New("playground: catalog has no examples")

// Option configures a Playground.
type Option func(*Playground)

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Playground) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCatalog replaces the embedded example catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(p *Playground) {
		if cat != nil {
			p.catalog = cat
		}
	}
}

// WithSettings sets the process-wide form settings.
func WithSettings(settings state.Settings) Option {
	return func(p *Playground) {
		p.settings = settings
	}
}

// WithNotificationDuration sets how long notifications stay visible. Zero
// keeps them until dismissed.
func WithNotificationDuration(d time.Duration) Option {
	return func(p *Playground) {
		p.notifyOpts = append(p.notifyOpts, notify.WithDuration(d))
	}
}

// WithNotifier replaces the notifier.
func WithNotifier(notifier *notify.Notifier) Option {
	return func(p *Playground) {
		if notifier != nil {
			p.notifier = notifier
		}
	}
}

// WithRenderers registers form renderers. Settings.Renderers picks among
// them.
func WithRenderers(renderers ...form.Renderer) Option {
	return func(p *Playground) {
		p.pending = append(p.pending, renderers...)
	}
}

// WithFormOnly starts the playground without text buffers.
func WithFormOnly(on bool) Option {
	return func(p *Playground) {
		p.formOnly = on
	}
}

// WithIDGenerator sets the buffer instance id generator.
func WithIDGenerator(fn func() string) Option {
	return func(p *Playground) {
		p.cacheOpts = append(p.cacheOpts, textmodel.WithIDGenerator(fn))
	}
}

// Playground owns one instance of every engine component.
type Playground struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	settings state.Settings
	formOnly bool

	notifyOpts []notify.Option
	cacheOpts  []textmodel.Option
	pending    []form.Renderer

	cache      *textmodel.Cache
	schemas    *schemacatalog.Registry
	store      *state.Store
	notifier   *notify.Notifier
	sync       *synchronizer.Synchronizer
	lifecycle  *lifecycle.Controller
	dispatcher *actions.Dispatcher
	renderers  *form.Registry
}

// New wires the components. The embedded catalog is used unless WithCatalog
// is given. No example is active until Start or Select is called.
func New(options ...Option) (*Playground, error) {
	p := &Playground{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		settings: state.DefaultSettings(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}

	if p.catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("playground: load embedded catalog: %w", err)
		}
		p.catalog = cat
	}
	if p.catalog.Len() == 0 {
		return nil, ErrNoExamples
	}

	p.cache = textmodel.New(append([]textmodel.Option{textmodel.WithLogger(p.logger)}, p.cacheOpts...)...)
	p.schemas = schemacatalog.New(
		schemacatalog.WithLogger(p.logger),
		schemacatalog.WithLocale(p.settings.Locale),
	)
	if err := p.schemas.RegisterAll(p.catalog.Examples()); err != nil {
		return nil, fmt.Errorf("playground: register schemas: %w", err)
	}
	p.store = state.NewStore(state.FormState{})
	if p.notifier == nil {
		p.notifier = notify.New(p.notifyOpts...)
	}

	var err error
	p.lifecycle, err = lifecycle.New(lifecycle.Dependencies{
		Catalog:  p.catalog,
		Cache:    p.cache,
		Store:    p.store,
		Settings: p.settings,
	}, lifecycle.WithLogger(p.logger), lifecycle.WithFormOnly(p.formOnly))
	if err != nil {
		return nil, fmt.Errorf("playground: %w", err)
	}

	p.sync, err = synchronizer.New(synchronizer.Dependencies{
		Catalog:  p.catalog,
		Cache:    p.cache,
		Store:    p.store,
		Registry: p.schemas,
		Notifier: p.notifier,
	}, synchronizer.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("playground: %w", err)
	}

	p.dispatcher, err = actions.NewDispatcher(p.store, actions.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("playground: %w", err)
	}

	p.renderers = form.NewRegistry()
	for _, renderer := range p.pending {
		if err := p.renderers.Register(renderer); err != nil {
			return nil, fmt.Errorf("playground: %w", err)
		}
	}
	p.pending = nil

	p.logger.Debug("playground ready", "examples", p.catalog.Len(), "renderers", p.renderers.List())
	return p, nil
}

// Start selects name, or the first catalog example when name is empty.
func (p *Playground) Start(name string) error {
	if name == "" {
		first, ok := p.catalog.First()
		if !ok {
			return ErrNoExamples
		}
		name = first.Name
	}
	return p.Select(name)
}

// Select switches the active example.
func (p *Playground) Select(name string) error {
	return p.lifecycle.Select(name)
}

// Active returns the active example name.
func (p *Playground) Active() string {
	return p.lifecycle.Active()
}

// ActiveExample returns the catalog entry of the active example.
func (p *Playground) ActiveExample() (catalog.Example, bool) {
	return p.catalog.Lookup(p.Active())
}

// Kinds lists the buffer kinds of the active example.
func (p *Playground) Kinds() []resource.Kind {
	example, ok := p.ActiveExample()
	if !ok {
		return nil
	}
	return lifecycle.Kinds(example)
}

// Buffer returns the text of the active example's buffer of kind.
func (p *Playground) Buffer(kind resource.Kind) (string, bool) {
	model, ok := p.cache.Get(resource.URI(p.Active(), kind))
	if !ok {
		return "", false
	}
	return model.Value(), true
}

// Edit replaces the text of the active example's buffer of kind, as an
// editor would. It reports whether the buffer exists and changed.
func (p *Playground) Edit(kind resource.Kind, text string) bool {
	return p.cache.SetValue(resource.URI(p.Active(), kind), text)
}

// Apply commits the buffer of kind into the form state.
func (p *Playground) Apply(kind resource.Kind) error {
	return p.sync.Apply(kind)
}

// Reload restores the buffer of kind from the catalog.
func (p *Playground) Reload(kind resource.Kind) error {
	return p.sync.Reload(kind)
}

// Diagnose validates the active example's buffer of kind against its
// associations.
func (p *Playground) Diagnose(kind resource.Kind) []schemacatalog.Diagnostic {
	text, ok := p.Buffer(kind)
	if !ok {
		return nil
	}
	return p.schemas.Diagnose(resource.URI(p.Active(), kind), text)
}

// Validator returns the data validator of the active example, nil when the
// example has no (compilable) schema.
func (p *Playground) Validator() *validation.Validator {
	validator, ok := p.schemas.Validator(resource.URI(p.Active(), resource.KindData))
	if !ok {
		return nil
	}
	return validator
}

// Validate checks the current form data against the active validator,
// honouring the validation mode.
func (p *Playground) Validate() validation.ErrorSet {
	snapshot := p.store.Snapshot()
	return form.Validate(p.Validator(), snapshot.ValidationMode, snapshot.Data)
}

// RenderForm runs the first registered renderer named in the state's
// renderer list. Changes flow back through the synchronizer.
func (p *Playground) RenderForm(ctx context.Context) error {
	snapshot := p.store.Snapshot()
	if snapshot.Example == "" {
		return errors.New("playground: no active example")
	}
	renderer, err := p.renderers.First(snapshot.Renderers)
	if err != nil {
		return fmt.Errorf("playground: %w", err)
	}
	p.logger.Debug("rendering form", "example", snapshot.Example, "renderer", renderer.Name())
	return renderer.Render(ctx, snapshot, p.Validator(), p.sync.SyncFromForm)
}

// RunAction dispatches the action at index of the active example. When the
// action changes the data, the change is mirrored into the data buffer and
// the error set as a form edit would be, without a notification.
func (p *Playground) RunAction(index int) error {
	snapshot := p.store.Snapshot()
	if index < 0 || index >= len(snapshot.Actions) {
		return fmt.Errorf("playground: action index %d out of range", index)
	}
	if err := p.dispatcher.Dispatch(snapshot.Actions[index]); err != nil {
		return err
	}
	if data := p.store.Snapshot().Data; !data.Equal(snapshot.Data) {
		p.sync.SyncFromForm(form.ChangeEvent{Data: data, Errors: p.Validate()})
	}
	return nil
}

// SetSettings replaces the process-wide settings. The active state takes
// them over and later example switches derive from them.
func (p *Playground) SetSettings(settings state.Settings) {
	p.lifecycle.SetSettings(settings)
}

// Settings returns the process-wide settings.
func (p *Playground) Settings() state.Settings {
	return p.lifecycle.Settings()
}

// SetFormOnly toggles form-only mode.
func (p *Playground) SetFormOnly(on bool) {
	p.lifecycle.SetFormOnly(on)
}

// FormOnly reports whether form-only mode is on.
func (p *Playground) FormOnly() bool {
	return p.lifecycle.FormOnly()
}

// Close disposes the active example's buffers.
func (p *Playground) Close() {
	if active := p.Active(); active != "" {
		p.cache.DisposeExample(active)
	}
}

// Catalog returns the example catalog.
func (p *Playground) Catalog() *catalog.Catalog { return p.catalog }

// Cache returns the text buffer cache.
func (p *Playground) Cache() *textmodel.Cache { return p.cache }

// Schemas returns the validation association registry.
func (p *Playground) Schemas() *schemacatalog.Registry { return p.schemas }

// Store returns the form state store.
func (p *Playground) Store() *state.Store { return p.store }

// Notifier returns the notification channel.
func (p *Playground) Notifier() *notify.Notifier { return p.notifier }

// Dispatcher returns the action dispatcher.
func (p *Playground) Dispatcher() *actions.Dispatcher { return p.dispatcher }

// Renderers returns the form renderer registry.
func (p *Playground) Renderers() *form.Registry { return p.renderers }
