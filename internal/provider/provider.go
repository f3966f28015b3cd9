package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Meeting is a meeting created upstream.
type Meeting struct {
	ID       string // opaque provider identifier
	RoomName string // room name as confirmed by the provider
	HostURL  string // URL granting entry to the meeting
	StartsAt time.Time
	EndsAt   time.Time
}

// Token is a participant-scoped access credential for an existing meeting.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Client abstracts the upstream video-meeting backend.
type Client interface {
	// CreateMeeting requests a new meeting valid for the given window starting now.
	CreateMeeting(ctx context.Context, roomName string, window time.Duration) (*Meeting, error)

	// IssueToken requests an access token for a participant in an existing meeting.
	IssueToken(ctx context.Context, meetingID, displayName string, window time.Duration) (*Token, error)
}

// Kind classifies provider failures so the coordinator can act on them.
type Kind string

const (
	// KindUnauthorized means the credential was rejected (bad or expired key).
	KindUnauthorized Kind = "unauthorized"
	// KindUnavailable means the provider could not be reached or returned a 5xx.
	KindUnavailable Kind = "unavailable"
	// KindMalformed means the response (or our request) had an unexpected shape.
	KindMalformed Kind = "malformed"
)

// Error is a typed provider failure.
type Error struct {
	Kind    Kind
	Status  int // HTTP status when applicable, 0 otherwise
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

// NewError builds a typed provider error.
func NewError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// KindOf extracts the failure kind from err. Unclassified errors
// (transport failures, timeouts) count as unavailable.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnavailable
}
