// Package presence tracks who is currently connected to each consultation
// room's waiting area and fans out join/leave events. It is advisory state
// for the UI; the room coordinator does not depend on it.
package presence

import "sync"

// Event describes a change in a room's participant set.
type Event struct {
	Type  string `json:"type"` // "participant-joined" or "participant-left"
	Room  string `json:"room"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Member is a connected participant as seen by the hub.
type Member struct {
	ID     string
	Name   string
	Events chan Event
}

// Hub manages per-room participant sets. Safe for concurrent use.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Member]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Member]struct{})}
}

// Join registers a member in the named room and notifies everyone in it.
func (h *Hub) Join(room string, member *Member) {
	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Member]struct{})
		h.rooms[room] = members
	}
	members[member] = struct{}{}
	count := len(members)
	h.broadcastLocked(room, Event{
		Type:  "participant-joined",
		Room:  room,
		Name:  member.Name,
		Count: count,
	})
	h.mu.Unlock()
}

// Leave removes a member from the named room and notifies the remainder.
// Empty rooms are deleted.
func (h *Hub) Leave(room string, member *Member) {
	h.mu.Lock()
	members, ok := h.rooms[room]
	if ok {
		delete(members, member)
		if len(members) == 0 {
			delete(h.rooms, room)
		} else {
			h.broadcastLocked(room, Event{
				Type:  "participant-left",
				Room:  room,
				Name:  member.Name,
				Count: len(members),
			})
		}
	}
	h.mu.Unlock()
}

// Count returns the number of members currently in the named room.
func (h *Hub) Count(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) broadcastLocked(room string, event Event) {
	for member := range h.rooms[room] {
		select {
		case member.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// NewMember constructs a member with a buffered event channel.
func NewMember(id, name string) *Member {
	if name == "" {
		name = id
	}
	return &Member{
		ID:     id,
		Name:   name,
		Events: make(chan Event, 8),
	}
}
