package actions

import (
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/state"
)

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRegistry replaces the built-in command registry.
func WithRegistry(registry *Registry) Option {
	return func(d *Dispatcher) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// Dispatcher runs actions against a state store.
type Dispatcher struct {
	store    *state.Store
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher binds a dispatcher to store.
func NewDispatcher(store *state.Store, opts ...Option) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("actions: state store is required")
	}
	d := &Dispatcher{
		store:    store,
		registry: DefaultRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d, nil
}

// Registry exposes the command registry so callers can add commands.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves action and runs it.
func (d *Dispatcher) Dispatch(action catalog.Action) error {
	transform, err := d.registry.Resolve(action)
	if err != nil {
		return err
	}
	return d.Run(action.Command, transform)
}

// Run applies transform to a snapshot of the current state and merges a
// non-empty patch into the store. Panics are not recovered.
func (d *Dispatcher) Run(name string, transform Transform) error {
	if transform == nil {
		return nil
	}
	patch, err := transform(d.store.Snapshot())
	if err != nil {
		d.logger.Debug("action failed", "action", name, "error", err)
		return err
	}
	if patch.Empty() {
		d.logger.Debug("action produced no changes", "action", name)
		return nil
	}
	d.store.Apply(patch)
	d.logger.Debug("action applied", "action", name, "fields", patch.Fields())
	return nil
}
