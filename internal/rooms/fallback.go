package rooms

import (
	"fmt"
	"time"

	"github.com/nourhb/video-chat/internal/utils"
)

const (
	// fallbackHost and fallbackPrefix form the synthesized room URL pattern
	// https://{fallbackHost}/{fallbackPrefix}/{name}.
	fallbackHost   = "meet.fallback.local"
	fallbackPrefix = "room"

	// fallbackToken is the sentinel credential returned in mock mode.
	fallbackToken = "mock-token"
)

// fallbackRecord synthesizes a room record with no external side effects.
// Used whenever the provider is unconfigured or fails; the booking flow
// must keep working even when the upstream service does not.
func fallbackRecord(name string) Record {
	return Record{
		MeetingID: "mock-" + utils.NewID(),
		HostURL:   fmt.Sprintf("https://%s/%s/%s", fallbackHost, fallbackPrefix, name),
		RoomName:  name,
		CreatedAt: time.Now(),
	}
}
