// Package notify is the single-slot notification channel: one message is
// visible at a time, later posts queue in order, and the visible message is
// dismissed after a fixed duration or on demand.
package notify

import (
	"sort"
	"sync"
	"time"
)

// Level grades a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Level   Level
	Message string
}

// EventType classifies channel transitions.
type EventType string

const (
	EventShown     EventType = "shown"
	EventDismissed EventType = "dismissed"
)

// Event is delivered to subscribers when a message appears or goes away.
type Event struct {
	Type         EventType
	Notification Notification
}

// DefaultDuration is how long a message stays visible.
const DefaultDuration = 3 * time.Second

// Timer is the subset of *time.Timer the notifier needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d.
type AfterFunc func(d time.Duration, fn func()) Timer

// Option customises a Notifier.
type Option func(*Notifier)

// WithDuration sets the auto-dismiss delay. Zero or negative disables
// auto-dismissal.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		n.duration = d
	}
}

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(n *Notifier) {
		if fn != nil {
			n.after = fn
		}
	}
}

// Notifier is safe for concurrent use; the dismissal timer fires on its own
// goroutine.
type Notifier struct {
	mu       sync.Mutex
	current  *Notification
	queue    []Notification
	timer    Timer
	epoch    int
	duration time.Duration
	after    AfterFunc

	subMu  sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

// New constructs a notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		duration: DefaultDuration,
		after: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
		subs: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(n)
	}
	return n
}

// Info posts an informational message.
func (n *Notifier) Info(message string) {
	n.Post(Notification{Level: LevelInfo, Message: message})
}

// Success posts a success message.
func (n *Notifier) Success(message string) {
	n.Post(Notification{Level: LevelSuccess, Message: message})
}

// Error posts an error message.
func (n *Notifier) Error(message string) {
	n.Post(Notification{Level: LevelError, Message: message})
}

// Post shows note immediately when nothing is visible, otherwise queues it.
func (n *Notifier) Post(note Notification) {
	n.mu.Lock()
	if n.current != nil {
		n.queue = append(n.queue, note)
		n.mu.Unlock()
		return
	}
	n.show(note)
	n.mu.Unlock()

	n.publish(Event{Type: EventShown, Notification: note})
}

// Current returns the visible message.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Pending returns the queued messages in posting order.
func (n *Notifier) Pending() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.queue...)
}

// Dismiss hides the visible message and shows the next queued one.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.dismissLocked(n.epoch)
}

// Subscribe registers fn for show and dismiss events. The returned function
// removes it.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	n.subMu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.subMu.Unlock()

	return func() {
		n.subMu.Lock()
		delete(n.subs, id)
		n.subMu.Unlock()
	}
}

// show must be called with mu held.
func (n *Notifier) show(note Notification) {
	n.current = &note
	n.epoch++
	if n.duration <= 0 {
		n.timer = nil
		return
	}
	epoch := n.epoch
	n.timer = n.after(n.duration, func() {
		n.mu.Lock()
		n.dismissLocked(epoch)
	})
}

// dismissLocked is entered with mu held and releases it. Timers from an
// earlier message carry a stale epoch and do nothing.
func (n *Notifier) dismissLocked(epoch int) {
	if n.current == nil || epoch != n.epoch {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	dismissed := *n.current
	n.current = nil

	var next *Notification
	if len(n.queue) > 0 {
		head := n.queue[0]
		n.queue = n.queue[1:]
		n.show(head)
		next = &head
	}
	n.mu.Unlock()

	n.publish(Event{Type: EventDismissed, Notification: dismissed})
	if next != nil {
		n.publish(Event{Type: EventShown, Notification: *next})
	}
}

func (n *Notifier) publish(event Event) {
	n.subMu.RLock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, n.subs[id])
	}
	n.subMu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}
