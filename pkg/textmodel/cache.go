package textmodel

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstudio/pkg/resource"
)

// EventType classifies buffer lifecycle events.
type EventType string

const (
	EventCreated  EventType = "created"
	EventChanged  EventType = "changed"
	EventDisposed EventType = "disposed"
)

// Event describes one buffer transition.
type Event struct {
	Type    EventType
	URI     string
	ID      string
	Version int
}

// Option customises a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for lifecycle tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides the instance id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cache) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Cache is the process-wide URI to buffer map.
type Cache struct {
	mu     sync.RWMutex
	models map[string]*Model

	subMu  sync.RWMutex
	subs   map[int]func(Event)
	nextID int

	logger *slog.Logger
	newID  func() string
}

// New constructs an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		models: make(map[string]*Model),
		subs:   make(map[int]func(Event)),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// GetOrCreate returns the live buffer for uri untouched, or creates one
// holding initial.
func (c *Cache) GetOrCreate(uri, initial string) *Model {
	c.mu.Lock()
	if existing, ok := c.models[uri]; ok {
		c.mu.Unlock()
		return existing
	}
	model := c.newModel(uri, initial)
	c.models[uri] = model
	c.mu.Unlock()

	c.logger.Debug("text model created", "uri", uri, "id", model.id)
	c.publish(Event{Type: EventCreated, URI: uri, ID: model.id, Version: model.version})
	return model
}

// Recreate disposes the buffer bound to uri, if any, and binds a fresh one
// holding text.
func (c *Cache) Recreate(uri, text string) *Model {
	c.mu.Lock()
	previous := c.models[uri]
	model := c.newModel(uri, text)
	c.models[uri] = model
	c.mu.Unlock()

	if previous != nil && previous.dispose() {
		c.publish(Event{Type: EventDisposed, URI: uri, ID: previous.id, Version: previous.Version()})
	}
	c.logger.Debug("text model recreated", "uri", uri, "id", model.id)
	c.publish(Event{Type: EventCreated, URI: uri, ID: model.id, Version: model.version})
	return model
}

// SetValue overwrites the text of the buffer bound to uri. It reports false
// when no buffer exists or the text is unchanged.
func (c *Cache) SetValue(uri, text string) bool {
	model, ok := c.Get(uri)
	if !ok {
		return false
	}
	return model.SetValue(text)
}

// Get returns the live buffer bound to uri.
func (c *Cache) Get(uri string) (*Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	model, ok := c.models[uri]
	return model, ok
}

// Dispose releases the buffer bound to uri. It reports whether one existed.
func (c *Cache) Dispose(uri string) bool {
	c.mu.Lock()
	model, ok := c.models[uri]
	if ok {
		delete(c.models, uri)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	if model.dispose() {
		c.logger.Debug("text model disposed", "uri", uri, "id", model.id)
		c.publish(Event{Type: EventDisposed, URI: uri, ID: model.id, Version: model.Version()})
	}
	return true
}

// DisposeExample releases every buffer of exampleID and returns how many
// were bound.
func (c *Cache) DisposeExample(exampleID string) int {
	count := 0
	for _, kind := range resource.Kinds() {
		if c.Dispose(resource.URI(exampleID, kind)) {
			count++
		}
	}
	return count
}

// URIs lists the bound URIs in sorted order.
func (c *Cache) URIs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.models))
	for uri := range c.models {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers fn for every event. The returned function removes it.
func (c *Cache) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Cache) newModel(uri, text string) *Model {
	return &Model{
		id:      c.newID(),
		uri:     uri,
		cache:   c,
		text:    text,
		version: 1,
	}
}

func (c *Cache) publish(event Event) {
	c.subMu.RLock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, c.subs[id])
	}
	c.subMu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}
