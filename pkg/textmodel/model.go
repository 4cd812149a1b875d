package textmodel

import "sync"

// Language is the language id attached to every buffer.
const Language = "json"

// Model is a live text buffer bound to a URI. Identity is the pair (URI, ID):
// a recreated buffer keeps its URI and receives a new ID.
type Model struct {
	id    string
	uri   string
	cache *Cache

	mu       sync.RWMutex
	text     string
	version  int
	disposed bool
}

// ID returns the instance identifier.
func (m *Model) ID() string {
	return m.id
}

// URI returns the resource URI the buffer is bound to.
func (m *Model) URI() string {
	return m.uri
}

// Language returns the buffer language id.
func (m *Model) Language() string {
	return Language
}

// Value returns the current text.
func (m *Model) Value() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text
}

// Version starts at 1 and increases with every change of the text.
func (m *Model) Version() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Disposed reports whether the buffer was released.
func (m *Model) Disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disposed
}

// SetValue replaces the text, as the editing widget does on user edits.
// Unchanged text and disposed buffers are left alone; the return value reports
// whether the text changed.
func (m *Model) SetValue(text string) bool {
	m.mu.Lock()
	if m.disposed || m.text == text {
		m.mu.Unlock()
		return false
	}
	m.text = text
	m.version++
	version := m.version
	m.mu.Unlock()

	if m.cache != nil {
		m.cache.publish(Event{Type: EventChanged, URI: m.uri, ID: m.id, Version: version})
	}
	return true
}

func (m *Model) dispose() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return false
	}
	m.disposed = true
	return true
}
