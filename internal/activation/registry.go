// Package activation fans window-activation events out to subscribers.
package activation

import (
	"sync"

	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/1broseidon/gridsnap/internal/window"
)

// Listener receives a fresh Window, screen dimensions unset, for every
// activation.
type Listener func(*window.Window)

// Subscription identifies a registered Listener.
type Subscription uint64

// EventSource reports newly focused windows.
type EventSource interface {
	OnActivate(fn func(platform.WindowID)) error
}

type entry struct {
	sub Subscription
	fn  Listener
}

// Registry owns the listener list. Listeners run synchronously on the
// goroutine that calls Notify, in registration order.
type Registry struct {
	backend platform.Backend
	opts    []window.Option

	mu        sync.Mutex
	next      Subscription
	listeners []entry
}

// NewRegistry creates a registry whose Windows talk to backend.
func NewRegistry(backend platform.Backend, opts ...window.Option) *Registry {
	return &Registry{
		backend: backend,
		opts:    opts,
	}
}

// SetWindowOptions replaces the options applied to Windows built by Notify.
func (r *Registry) SetWindowOptions(opts ...window.Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
}

func (r *Registry) Register(fn Listener) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.listeners = append(r.listeners, entry{sub: r.next, fn: fn})
	return r.next
}

// Unregister removes a listener. It reports false for unknown subscriptions.
func (r *Registry) Unregister(sub Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.listeners {
		if e.sub == sub {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Notify delivers an activation of id to the listeners registered at the
// time of the call.
func (r *Registry) Notify(id platform.WindowID) {
	r.mu.Lock()
	snapshot := make([]entry, len(r.listeners))
	copy(snapshot, r.listeners)
	opts := r.opts
	r.mu.Unlock()

	for _, e := range snapshot {
		e.fn(window.New(r.backend, id, opts...))
	}
}

// Listen routes activations from src into Notify.
func (r *Registry) Listen(src EventSource) error {
	return src.OnActivate(r.Notify)
}
