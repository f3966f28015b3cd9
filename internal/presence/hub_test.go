package presence

import "testing"

func drain(m *Member) []Event {
	var events []Event
	for {
		select {
		case e := <-m.Events:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestJoinLeaveCounts(t *testing.T) {
	hub := NewHub()

	alice := NewMember("1", "Alice")
	bob := NewMember("2", "Bob")

	hub.Join("demo", alice)
	if hub.Count("demo") != 1 {
		t.Errorf("expected 1 member, got %d", hub.Count("demo"))
	}

	hub.Join("demo", bob)
	if hub.Count("demo") != 2 {
		t.Errorf("expected 2 members, got %d", hub.Count("demo"))
	}

	// Alice saw both joins, Bob only his own.
	aliceEvents := drain(alice)
	if len(aliceEvents) != 2 {
		t.Fatalf("expected 2 events for alice, got %d", len(aliceEvents))
	}
	if aliceEvents[1].Type != "participant-joined" || aliceEvents[1].Name != "Bob" || aliceEvents[1].Count != 2 {
		t.Errorf("unexpected event: %+v", aliceEvents[1])
	}

	hub.Leave("demo", bob)
	if hub.Count("demo") != 1 {
		t.Errorf("expected 1 member after leave, got %d", hub.Count("demo"))
	}
	aliceEvents = drain(alice)
	if len(aliceEvents) != 1 || aliceEvents[0].Type != "participant-left" {
		t.Errorf("expected a leave event, got %+v", aliceEvents)
	}

	// Last member out deletes the room.
	hub.Leave("demo", alice)
	if hub.Count("demo") != 0 {
		t.Errorf("expected empty room, got %d", hub.Count("demo"))
	}
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Leave("ghost", NewMember("1", "Alice"))
	if hub.Count("ghost") != 0 {
		t.Error("expected ghost room to stay empty")
	}
}

func TestSlowConsumerDoesNotBlock(t *testing.T) {
	hub := NewHub()

	slow := NewMember("1", "Slow")
	hub.Join("demo", slow)

	// Overflow the slow member's buffer; joins must not block.
	for i := 0; i < 20; i++ {
		hub.Join("demo", NewMember("x", "X"))
	}
	if hub.Count("demo") != 21 {
		t.Errorf("expected 21 members, got %d", hub.Count("demo"))
	}
}

func TestMemberNameDefaultsToID(t *testing.T) {
	m := NewMember("abc", "")
	if m.Name != "abc" {
		t.Errorf("expected name to default to id, got %q", m.Name)
	}
}
