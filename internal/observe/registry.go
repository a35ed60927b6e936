// Package observe implements the synchronous subscription contract of the state stores.
package observe

import "sync"

// Registry holds subscribers for events of type E, notified in subscription order
type Registry[E any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[E]
}

type subscriber[E any] struct {
	id int
	fn func(E)
}

// Subscribe adds fn and returns a func that removes it. Cancelling twice is a no-op.
func (r *Registry[E]) Subscribe(fn func(E)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscriber[E]{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every subscriber with ev. Subscribers may subscribe or cancel
// from inside the callback; such changes apply to the next Notify.
func (r *Registry[E]) Notify(ev E) {
	r.mu.Lock()
	fns := make([]func(E), len(r.subs))
	for i, s := range r.subs {
		fns[i] = s.fn
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of subscribers
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
