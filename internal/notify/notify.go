// Package notify provides the toast notification queue for voice-studio.
//
// Toasts are transient user-facing messages. Each enqueued toast schedules
// its own removal after its duration; manual dismissal cancels the pending
// timer so a reused timer can never fire against a later toast. Nothing
// here is persisted.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/book-expert/voice-studio/internal/core"
)

// Sink receives every enqueued toast for display. Implementations must not
// block.
type Sink interface {
	Show(toast core.Toast)
}

// Notifier is the active toast set. All methods are safe for concurrent
// use.
type Notifier struct {
	mu              sync.Mutex
	active          []core.Toast
	timers          map[string]*time.Timer
	sink            Sink
	defaultDuration time.Duration
}

// New creates a notifier. A nil sink is allowed; toasts are then only
// observable through Active. A non-positive defaultDuration falls back to
// core.DefaultToastDuration.
func New(sink Sink, defaultDuration time.Duration) *Notifier {
	if defaultDuration <= 0 {
		defaultDuration = core.DefaultToastDuration
	}

	return &Notifier{
		mu:              sync.Mutex{},
		active:          nil,
		timers:          make(map[string]*time.Timer),
		sink:            sink,
		defaultDuration: defaultDuration,
	}
}

// Enqueue assigns the toast a unique id and a default duration when
// unspecified, appends it to the active set, and schedules its expiry.
func (n *Notifier) Enqueue(toast core.Toast) core.Toast {
	toast.ID = uuid.NewString()

	if toast.Duration <= 0 {
		toast.Duration = n.defaultDuration
	}

	if toast.Variant == "" {
		toast.Variant = core.ToastDefault
	}

	n.mu.Lock()
	n.active = append(n.active, toast)
	n.timers[toast.ID] = time.AfterFunc(toast.Duration, func() {
		n.Dismiss(toast.ID)
	})
	n.mu.Unlock()

	if n.sink != nil {
		n.sink.Show(toast)
	}

	return toast
}

// Dismiss removes a toast immediately and cancels its pending expiry.
// Removal is idempotent; dismissing an already-removed id is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}

	for index := range n.active {
		if n.active[index].ID == id {
			n.active = append(n.active[:index], n.active[index+1:]...)

			return
		}
	}
}

// Active returns the live toasts in insertion order.
func (n *Notifier) Active() []core.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	active := make([]core.Toast, len(n.active))
	copy(active, n.active)

	return active
}

// Close stops every pending expiry timer and clears the active set.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}

	n.active = nil
}

// Success enqueues a success-variant toast.
func (n *Notifier) Success(title, description string) core.Toast {
	return n.Enqueue(core.Toast{
		ID:          "",
		Title:       title,
		Description: description,
		Variant:     core.ToastSuccess,
		Duration:    0,
	})
}

// Error enqueues a destructive-variant toast.
func (n *Notifier) Error(title, description string) core.Toast {
	return n.Enqueue(core.Toast{
		ID:          "",
		Title:       title,
		Description: description,
		Variant:     core.ToastDestructive,
		Duration:    0,
	})
}

// Info enqueues a default-variant toast.
func (n *Notifier) Info(title, description string) core.Toast {
	return n.Enqueue(core.Toast{
		ID:          "",
		Title:       title,
		Description: description,
		Variant:     core.ToastDefault,
		Duration:    0,
	})
}
