package realtime

import "sync"

// Registry tracks the set of currently open client connections. All mutation
// goes through the write lock; Snapshot copies under the read lock so callers
// never iterate the live set.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	order []string
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Add registers a new connection. It returns ErrDuplicateConnection if the ID
// is already a member, which should never happen under uuid generation.
func (r *Registry) Add(c *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[c.ID]; exists {
		return ErrDuplicateConnection
	}
	r.conns[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

// Remove unregisters a connection by ID. Removing an absent ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[id]; !exists {
		return
	}
	delete(r.conns, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a point-in-time copy of the members in insertion order.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connection, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.conns[id])
	}
	return out
}

// Len reports the current membership size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
