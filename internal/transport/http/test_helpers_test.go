package http

import (
	"context"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/nourhb/video-chat/internal/auth"
	"github.com/nourhb/video-chat/internal/config"
	"github.com/nourhb/video-chat/internal/log"
	"github.com/nourhb/video-chat/internal/presence"
	"github.com/nourhb/video-chat/internal/provider"
	"github.com/nourhb/video-chat/internal/rooms"
	"github.com/nourhb/video-chat/internal/service/consultations"
	"github.com/nourhb/video-chat/internal/store/sqlite"
)

// fakeProvider implements provider.Client with overridable behavior.
type fakeProvider struct {
	createFunc func(name string) (*provider.Meeting, error)
	tokenFunc  func(meetingID, displayName string) (*provider.Token, error)
}

func (f *fakeProvider) CreateMeeting(_ context.Context, name string, window time.Duration) (*provider.Meeting, error) {
	if f.createFunc != nil {
		return f.createFunc(name)
	}
	return &provider.Meeting{
		ID:       "m1",
		RoomName: name,
		HostURL:  "https://provider/m1",
		StartsAt: time.Now(),
		EndsAt:   time.Now().Add(window),
	}, nil
}

func (f *fakeProvider) IssueToken(_ context.Context, _, displayName string, window time.Duration) (*provider.Token, error) {
	if f.tokenFunc != nil {
		return f.tokenFunc("", displayName)
	}
	return &provider.Token{Value: "token-" + displayName, ExpiresAt: time.Now().Add(window)}, nil
}

type testEnv struct {
	server      *stdhttp.Server
	authService *auth.Service
	store       *sqlite.SQLiteStore
	registry    *rooms.Registry
}

// newTestEnv builds a full server over an in-memory store. client may be
// nil to exercise permanent fallback mode.
func newTestEnv(t *testing.T, client provider.Client) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := log.Disabled()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	registry := rooms.NewRegistry()
	coordinator := rooms.NewCoordinator(registry, client, time.Hour, logger)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(Deps{
		Coordinator:   coordinator,
		Registry:      registry,
		AuthService:   authService,
		Store:         st,
		Consultations: consultations.New(st, coordinator),
		Presence:      presence.NewHub(),
	}, &cfg, logger)

	return &testEnv{
		server:      server,
		authService: authService,
		store:       st,
		registry:    registry,
	}
}

// registerNurse creates a staff account and returns its bearer token.
func (e *testEnv) registerNurse(t *testing.T) string {
	t.Helper()

	token, err := e.authService.Register(context.Background(), "Nour Gharbi", "nour@example.com", "general care", "password123")
	if err != nil {
		t.Fatalf("failed to register nurse: %v", err)
	}
	return token
}
