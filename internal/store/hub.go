package store

import "sync"

// Hub fans out collection change notifications to subscribers. Callbacks
// run on the notifying goroutine, so they should be quick; the live cache
// uses them only to schedule a reload.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[Collection]map[int]func()
}

func NewHub() *Hub {
	return &Hub{subs: make(map[Collection]map[int]func())}
}

// Watch registers fn for changes to c and returns the unsubscribe
// function. Calling it more than once is a no-op after the first.
func (h *Hub) Watch(c Collection, fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	if h.subs[c] == nil {
		h.subs[c] = make(map[int]func())
	}
	h.subs[c][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[c], id)
	}
}

// Notify invokes every subscriber of c. Callbacks run outside the hub
// lock, so a callback may watch or unsubscribe without deadlocking.
func (h *Hub) Notify(c Collection) {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs[c]))
	for _, fn := range h.subs[c] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
