package state

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/validation"
)

// ChangeKind classifies store notifications.
type ChangeKind string

const (
	// ChangeReplaced means the whole state was swapped (example switch).
	ChangeReplaced ChangeKind = "replaced"
	// ChangePatched means some fields were merged in.
	ChangePatched ChangeKind = "patched"
	// ChangeErrors means the error set was replaced.
	ChangeErrors ChangeKind = "errors"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind   ChangeKind
	Fields []string
	State  FormState
	Errors validation.ErrorSet
}

// Store is the observable holder of the current FormState and ErrorSet.
type Store struct {
	mu     sync.RWMutex
	state  FormState
	errors validation.ErrorSet

	subMu  sync.RWMutex
	subs   map[int]func(Change)
	nextID int
}

// NewStore constructs a store holding initial.
func NewStore(initial FormState) *Store {
	return &Store{
		state: initial.Clone(),
		subs:  make(map[int]func(Change)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Replace swaps the whole state.
func (s *Store) Replace(next FormState) {
	s.mu.Lock()
	s.state = next.Clone()
	snapshot := s.state.Clone()
	errs := s.errors.Clone()
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeReplaced, State: snapshot, Errors: errs})
}

// Apply merges patch into the state and returns the result. Empty patches
// change nothing and notify nobody.
func (s *Store) Apply(patch Patch) FormState {
	if patch.Empty() {
		return s.Snapshot()
	}
	s.mu.Lock()
	s.state = patch.ApplyTo(s.state)
	snapshot := s.state.Clone()
	errs := s.errors.Clone()
	s.mu.Unlock()

	s.publish(Change{Kind: ChangePatched, Fields: patch.Fields(), State: snapshot.Clone(), Errors: errs})
	return snapshot
}

// Errors returns the current error set.
func (s *Store) Errors() validation.ErrorSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors.Clone()
}

// SetErrors replaces the error set wholesale.
func (s *Store) SetErrors(errs validation.ErrorSet) {
	s.mu.Lock()
	s.errors = errs.Clone()
	snapshot := s.state.Clone()
	current := s.errors.Clone()
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeErrors, State: snapshot, Errors: current})
}

// Subscribe registers fn for every change. The returned function removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(change Change) {
	s.subMu.RLock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.subs[id])
	}
	s.subMu.RUnlock()

	for _, fn := range handlers {
		fn(change)
	}
}
