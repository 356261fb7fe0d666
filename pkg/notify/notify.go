// Package notify keeps the list of toast notifications on screen.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"agroskills-platform/pkg/clock"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

const DefaultDuration = 5 * time.Second

// Sticky keeps a toast until it is dismissed.
const Sticky time.Duration = -1

type Toast struct {
	ID        int64
	Kind      Kind
	Title     string
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

type Center struct {
	clock    clock.Clock
	log      *slog.Logger
	duration time.Duration

	mu     sync.Mutex
	nextID int64
	active []Toast
	timers map[int64]clock.Timer
	subs   map[int]func([]Toast)
	nextSb int
}

type Option func(*Center)

func WithClock(c clock.Clock) Option { return func(n *Center) { n.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(n *Center) { n.log = l } }

// WithDefaultDuration changes how long toasts without a duration stay up.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Center) { n.duration = d }
}

func New(opts ...Option) *Center {
	n := &Center{
		clock:    clock.Real{},
		log:      slog.Default(),
		duration: DefaultDuration,
		timers:   make(map[int64]clock.Timer),
		subs:     make(map[int]func([]Toast)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays a toast and returns its id. A zero duration uses the
// default; Sticky disables auto-dismiss.
func (n *Center) Show(kind Kind, title, message string, d time.Duration) int64 {
	if d == 0 {
		d = n.duration
	}
	n.mu.Lock()
	n.nextID++
	t := Toast{
		ID:        n.nextID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Duration:  d,
		CreatedAt: n.clock.Now(),
	}
	n.active = append(n.active, t)
	if d > 0 {
		id := t.ID
		n.timers[id] = n.clock.AfterFunc(d, func() { n.Dismiss(id) })
	}
	n.mu.Unlock()

	n.log.Debug("toast shown", "id", t.ID, "kind", kind, "title", title)
	n.publish()
	return t.ID
}

func (n *Center) Success(title, message string) int64 { return n.Show(Success, title, message, 0) }
func (n *Center) Error(title, message string) int64   { return n.Show(Error, title, message, 0) }
func (n *Center) Warning(title, message string) int64 { return n.Show(Warning, title, message, 0) }
func (n *Center) Info(title, message string) int64    { return n.Show(Info, title, message, 0) }

// Dismiss removes a toast. It reports false when the toast is already gone.
func (n *Center) Dismiss(id int64) bool {
	n.mu.Lock()
	idx := -1
	for i, t := range n.active {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	n.active = append(n.active[:idx], n.active[idx+1:]...)
	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	n.mu.Unlock()

	n.publish()
	return true
}

// Clear dismisses everything.
func (n *Center) Clear() {
	n.mu.Lock()
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	n.active = nil
	n.mu.Unlock()
	n.publish()
}

// Active returns the visible toasts, oldest first.
func (n *Center) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.active...)
}

// Subscribe calls fn with the current list after every change. fn runs
// synchronously and must not call back into the Center's mutating methods.
func (n *Center) Subscribe(fn func([]Toast)) (cancel func()) {
	n.mu.Lock()
	id := n.nextSb
	n.nextSb++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Center) publish() {
	n.mu.Lock()
	snapshot := append([]Toast(nil), n.active...)
	subs := make([]func([]Toast), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
