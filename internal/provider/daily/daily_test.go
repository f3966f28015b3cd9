package daily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nourhb/video-chat/internal/provider"
)

func TestCreateMeeting(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Name != "demo-room" {
			t.Errorf("unexpected room name %q", req.Name)
		}
		if req.Properties.Expires <= req.Properties.NotBefore {
			t.Error("expected exp after nbf")
		}

		json.NewEncoder(w).Encode(roomResponse{
			ID:   "m1",
			Name: "demo-room",
			URL:  "https://provider/m1",
		})
	}))
	defer ts.Close()

	client := New(ts.URL, "test-key", time.Second)
	meeting, err := client.CreateMeeting(context.Background(), "demo-room", 24*time.Hour)
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if meeting.ID != "m1" || meeting.HostURL != "https://provider/m1" || meeting.RoomName != "demo-room" {
		t.Errorf("unexpected meeting: %+v", meeting)
	}
}

func TestIssueToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meeting-tokens" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req createTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Properties.RoomName != "m1" || req.Properties.UserName != "Alice" {
			t.Errorf("unexpected token request: %+v", req)
		}

		json.NewEncoder(w).Encode(tokenResponse{Token: "tok-abc"})
	}))
	defer ts.Close()

	client := New(ts.URL, "test-key", time.Second)
	token, err := client.IssueToken(context.Background(), "m1", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token.Value != "tok-abc" {
		t.Errorf("unexpected token %q", token.Value)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   provider.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, provider.KindUnauthorized},
		{"forbidden", http.StatusForbidden, `{"error":"no access"}`, provider.KindUnauthorized},
		{"server error", http.StatusInternalServerError, "boom", provider.KindUnavailable},
		{"bad request", http.StatusBadRequest, `{"error":"nope"}`, provider.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := New(ts.URL, "test-key", time.Second)
			_, err := client.CreateMeeting(context.Background(), "demo", time.Hour)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := provider.KindOf(err); got != tt.want {
				t.Errorf("expected kind %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	client := New(ts.URL, "test-key", time.Second)
	_, err := client.CreateMeeting(context.Background(), "demo", time.Hour)
	if provider.KindOf(err) != provider.KindMalformed {
		t.Errorf("expected malformed kind, got %v", err)
	}
}

func TestUnreachableProvider(t *testing.T) {
	// Port is closed: the transport error must classify as unavailable.
	client := New("http://127.0.0.1:1", "test-key", 200*time.Millisecond)
	_, err := client.CreateMeeting(context.Background(), "demo", time.Hour)
	if provider.KindOf(err) != provider.KindUnavailable {
		t.Errorf("expected unavailable kind, got %v", err)
	}
}
