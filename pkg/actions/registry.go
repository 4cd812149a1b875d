package actions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/catalog"
	"github.com/goliatone/go-formstudio/pkg/state"
)

// ErrUnknownCommand is returned for actions naming an unregistered command.
var ErrUnknownCommand = errors.New("actions: unknown command")

// Transform computes a patch from the current state.
type Transform func(state.FormState) (state.Patch, error)

// Constructor builds a transform from action parameters.
type Constructor func(params map[string]any) (Transform, error)

// Registry maps command names to constructors.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Constructor)}
}

// DefaultRegistry creates a registry holding the built-in commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for name, ctor := range builtins() {
		r.MustRegister(name, ctor)
	}
	return r
}

// Register adds a command. Duplicate names return an error.
func (r *Registry) Register(name string, ctor Constructor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("actions: command name is required")
	}
	if ctor == nil {
		return fmt.Errorf("actions: command %q has no constructor", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("actions: command %q already registered", name)
	}
	r.commands[name] = ctor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Resolve builds the transform for action.
func (r *Registry) Resolve(action catalog.Action) (Transform, error) {
	r.mu.RLock()
	ctor, ok := r.commands[action.Command]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, action.Command)
	}

	transform, err := ctor(action.Params)
	if err != nil {
		return nil, fmt.Errorf("actions: %s: %w", action.Command, err)
	}
	return transform, nil
}

// List returns the registered command names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
