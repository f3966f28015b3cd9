package rooms

import (
	"sync"
	"time"
)

// Record holds what the registry knows about a room. Records are created
// once per room name and never mutated afterwards; they live for the
// lifetime of the process (no eviction).
type Record struct {
	MeetingID string
	HostURL   string
	RoomName  string
	CreatedAt time.Time
}

// Registry maps room names to provider-issued room records. It is the only
// shared mutable state in the room subsystem and is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]Record)}
}

// Exists reports whether a record for name is present.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[name]
	return ok
}

// Get returns the stored record for name.
func (r *Registry) Get(name string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rooms[name]
	return rec, ok
}

// Put inserts or overwrites the record for name. Last writer wins.
func (r *Registry) Put(name string, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[name] = rec
}

// PutIfAbsent stores rec unless a record for name already exists.
// Returns the record now in the registry and whether rec was stored.
func (r *Registry) PutIfAbsent(name string, rec Record) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[name]; ok {
		return existing, false
	}
	r.rooms[name] = rec
	return rec, true
}

// Len returns the number of registered rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
