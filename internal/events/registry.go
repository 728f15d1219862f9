package events

import "sync"

// registry stores listeners of type L keyed by registration id and optionally
// remembers the last notified value so late listeners can be caught up.
// Shared by ChannelEvent and CallbackEvent.
type registry[T any, L any] struct {
	mu          sync.RWMutex
	listeners   map[uint64]L
	nextID      uint64
	replayLast  bool
	lastEvent   T
	hasNotified bool
}

func newRegistry[T any, L any](replayLast bool) *registry[T, L] {
	return &registry[T, L]{
		listeners:  make(map[uint64]L),
		replayLast: replayLast,
	}
}

// add registers a listener and returns its id plus the value to replay, if any
func (r *registry[T, L]) add(listener L) (uint64, T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = listener
	replay := r.replayLast && r.hasNotified
	return id, r.lastEvent, replay
}

// remover returns an idempotent deregistration func for id
func (r *registry[T, L]) remover(id uint64) func() {
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// record stores value as the last event and snapshots the listeners so they
// can be invoked outside the lock
func (r *registry[T, L]) record(value T) []L {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replayLast {
		r.lastEvent = value
		r.hasNotified = true
	}
	snapshot := make([]L, 0, len(r.listeners))
	for _, l := range r.listeners {
		snapshot = append(snapshot, l)
	}
	return snapshot
}

func (r *registry[T, L]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
