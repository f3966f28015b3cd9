package rooms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/provider"
)

// Action tells the coordinator whether the caller intends to start a room
// or join one that should already exist.
type Action string

const (
	ActionCreate Action = "create"
	ActionJoin   Action = "join"
)

// ErrInvalidRoomName is returned when the caller supplies an empty room name.
var ErrInvalidRoomName = errors.New("room name is required")

// Descriptor is the uniform result returned to callers regardless of
// whether the real provider or the fallback produced it.
type Descriptor struct {
	RoomID     string `json:"roomId"`
	RoomURL    string `json:"roomUrl"`
	Token      string `json:"token"`
	RoomName   string `json:"roomName"`
	IsExisting bool   `json:"isExisting"`
	IsMock     bool   `json:"isMock"`
}

const defaultWindow = 24 * time.Hour

// Coordinator decides whether a named room already exists, creates or
// reuses it upstream, issues participant tokens and keeps the registry
// current. Provider failures are absorbed and answered with a fallback
// descriptor; the only caller-visible error is an invalid room name.
type Coordinator struct {
	registry *Registry
	client   provider.Client // nil means no credential configured: permanent fallback mode
	window   time.Duration
	log      *zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCoordinator wires a coordinator. client may be nil when the provider
// credential is absent; every call then takes the fallback path without
// touching the network. window bounds meeting and token lifetime and
// defaults to 24h.
func NewCoordinator(registry *Registry, client provider.Client, window time.Duration, logger *zerolog.Logger) *Coordinator {
	if window <= 0 {
		window = defaultWindow
	}
	return &Coordinator{
		registry: registry,
		client:   client,
		window:   window,
		log:      logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// EnsureRoom returns a descriptor for the named room, creating it upstream
// when no record exists yet. Calls for the same name are serialized so two
// concurrent creators cannot produce two upstream meetings; whichever runs
// second reuses the stored record.
func (c *Coordinator) EnsureRoom(ctx context.Context, name, participant string, action Action) (*Descriptor, error) {
	if name == "" {
		return nil, ErrInvalidRoomName
	}
	if action != ActionJoin {
		action = ActionCreate
	}

	lock := c.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	if c.client == nil {
		return c.ensureFallback(name, action), nil
	}

	if rec, ok := c.registry.Get(name); ok {
		return c.joinExisting(ctx, name, participant, rec), nil
	}
	return c.createRoom(ctx, name, participant, action), nil
}

// joinExisting issues a fresh token against the stored record. A provider
// failure degrades this call only: the stored record stays untouched so a
// transient token error does not destroy a valid room.
func (c *Coordinator) joinExisting(ctx context.Context, name, participant string, rec Record) *Descriptor {
	token, err := c.client.IssueToken(ctx, rec.MeetingID, participant, c.window)
	if err != nil {
		c.log.Warn().Err(err).
			Str("room", name).
			Str("kind", string(provider.KindOf(err))).
			Msg("token issuance failed, serving fallback descriptor")
		fb := fallbackRecord(name)
		return describe(fb, fallbackToken, true, true)
	}
	return describe(rec, token.Value, true, false)
}

// createRoom creates the meeting upstream, registers it and issues the
// creator's token. Any provider error at either step falls back entirely:
// a fallback record replaces whatever the failed creation left behind.
func (c *Coordinator) createRoom(ctx context.Context, name, participant string, action Action) *Descriptor {
	meeting, err := c.client.CreateMeeting(ctx, name, c.window)
	if err != nil {
		c.logProviderError(err, name, "meeting creation failed, falling back")
		fb := fallbackRecord(name)
		c.registry.Put(name, fb)
		return describe(fb, fallbackToken, false, true)
	}

	roomName := meeting.RoomName
	if roomName == "" {
		roomName = name
	}
	rec := Record{
		MeetingID: meeting.ID,
		HostURL:   meeting.HostURL,
		RoomName:  roomName,
		CreatedAt: time.Now(),
	}
	c.registry.Put(name, rec)

	token, err := c.client.IssueToken(ctx, meeting.ID, participant, c.window)
	if err != nil {
		c.logProviderError(err, name, "creator token failed, falling back")
		fb := fallbackRecord(name)
		c.registry.Put(name, fb)
		return describe(fb, fallbackToken, false, true)
	}

	c.log.Info().
		Str("room", name).
		Str("meeting_id", meeting.ID).
		Str("action", string(action)).
		Msg("room created")
	return describe(rec, token.Value, false, false)
}

// ensureFallback serves permanent fallback mode: no network calls, ever.
// A join on a name already registered reuses the stored record so repeated
// calls keep returning the same room id.
func (c *Coordinator) ensureFallback(name string, action Action) *Descriptor {
	if action == ActionJoin {
		if rec, ok := c.registry.Get(name); ok {
			return describe(rec, fallbackToken, true, true)
		}
	}
	rec := fallbackRecord(name)
	c.registry.Put(name, rec)
	return describe(rec, fallbackToken, action == ActionJoin, true)
}

func (c *Coordinator) logProviderError(err error, name, msg string) {
	evt := c.log.Warn()
	if provider.KindOf(err) == provider.KindUnauthorized {
		// Bad credential is a configuration concern, not a per-call blip.
		evt = c.log.Error()
	}
	evt.Err(err).
		Str("room", name).
		Str("kind", string(provider.KindOf(err))).
		Msg(msg)
}

func (c *Coordinator) nameLock(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[name] = lock
	}
	return lock
}

func describe(rec Record, token string, existing, mock bool) *Descriptor {
	return &Descriptor{
		RoomID:     rec.MeetingID,
		RoomURL:    rec.HostURL,
		Token:      token,
		RoomName:   rec.RoomName,
		IsExisting: existing,
		IsMock:     mock,
	}
}
