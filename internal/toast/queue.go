// Package toast implements a queue of self-expiring notifications.
package toast

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Kind is the visual category of a toast.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

const (
	// DefaultLifetime is how long each toast stays in the queue.
	DefaultLifetime = 3000 * time.Millisecond
	// MaxVisible is how many of the most recent toasts are rendered.
	MaxVisible = 5
)

// Toast is a single notification.
type Toast struct {
	ID      string
	Message string
	Kind    Kind
}

// ExpiredMsg is delivered when the toast with ID reaches the end of its lifetime.
type ExpiredMsg struct {
	ID string
}

// Queue holds active toasts in arrival order. It is owned by the bubbletea
// event loop and is not safe for concurrent use.
type Queue struct {
	items    []Toast
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithLifetime overrides the per-toast lifetime.
func WithLifetime(d time.Duration) Option {
	return func(q *Queue) {
		q.lifetime = d
	}
}

// WithClock overrides the time source used for ids.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a toast and returns it with the command that expires it.
// Every toast owns its own timer; later pushes never reset earlier ones.
func (q *Queue) Push(message string, kind Kind) (Toast, tea.Cmd) {
	if kind == "" {
		kind = Info
	}
	t := Toast{
		ID:      q.newID(),
		Message: message,
		Kind:    kind,
	}
	q.items = append(q.items, t)

	id := t.ID
	return t, tea.Tick(q.lifetime, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Remove deletes the toast with id. Unknown ids are ignored.
func (q *Queue) Remove(id string) bool {
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Update handles expiry messages and reports whether msg was consumed.
func (q *Queue) Update(msg tea.Msg) bool {
	if m, ok := msg.(ExpiredMsg); ok {
		q.Remove(m.ID)
		return true
	}
	return false
}

// Len returns the number of queued toasts, visible or not.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns a copy of every queued toast, oldest first.
func (q *Queue) All() []Toast {
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Visible returns at most MaxVisible of the newest toasts, oldest first.
func (q *Queue) Visible() []Toast {
	start := len(q.items) - MaxVisible
	if start < 0 {
		start = 0
	}
	out := make([]Toast, len(q.items)-start)
	copy(out, q.items[start:])
	return out
}

// Lifetime returns the configured lifetime.
func (q *Queue) Lifetime() time.Duration {
	return q.lifetime
}

func (q *Queue) newID() string {
	return strconv.FormatInt(q.now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}
