package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/nourhb/video-chat/internal/presence"
)

func dialPresence(t *testing.T, ctx context.Context, baseURL, room, name string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/rooms/ws?roomName=" + room + "&name=" + name
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial presence socket: %v", err)
	}
	return conn
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) presence.Event {
	t.Helper()

	var event presence.Event
	if err := wsjson.Read(ctx, conn, &event); err != nil {
		t.Fatalf("failed to read presence event: %v", err)
	}
	return event
}

func TestPresenceSocket(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})
	ts := httptest.NewServer(env.server.Handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := dialPresence(t, ctx, ts.URL, "checkup", "amira")
	defer first.Close(websocket.StatusNormalClosure, "")

	// The joiner hears its own join event.
	event := readEvent(t, ctx, first)
	if event.Type != "participant-joined" || event.Name != "amira" || event.Count != 1 {
		t.Fatalf("unexpected event: %+v", event)
	}

	second := dialPresence(t, ctx, ts.URL, "checkup", "bilel")

	event = readEvent(t, ctx, first)
	if event.Type != "participant-joined" || event.Name != "bilel" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Count != 2 {
		t.Fatalf("expected count 2, got %d", event.Count)
	}

	second.Close(websocket.StatusNormalClosure, "")

	event = readEvent(t, ctx, first)
	if event.Type != "participant-left" || event.Count != 1 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestPresenceSocketRequiresRoomName(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/rooms/ws", nil)
	resp := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(resp, req)
	if resp.Code != stdhttp.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
