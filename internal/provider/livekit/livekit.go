// Package livekit implements provider.Client for a self-hosted LiveKit
// deployment. LiveKit creates rooms on demand when the first participant
// connects, so meeting creation only reserves a room name; tokens are
// minted locally with the API key pair, no network call involved.
package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/nourhb/video-chat/internal/provider"
	"github.com/nourhb/video-chat/internal/utils"
)

// Client mints LiveKit access tokens for consultation rooms.
type Client struct {
	apiKey    string
	apiSecret string
	wsURL     string
}

// New creates a LiveKit-backed client.
func New(apiKey, apiSecret, wsURL string) *Client {
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		wsURL:     wsURL,
	}
}

// CreateMeeting reserves a LiveKit room name for the consultation.
func (c *Client) CreateMeeting(_ context.Context, roomName string, window time.Duration) (*provider.Meeting, error) {
	now := time.Now()
	// Room id format: vc-{roomName}-{suffix}; the suffix keeps re-created
	// rooms distinct upstream after the validity window lapses.
	meetingID := fmt.Sprintf("vc-%s-%s", roomName, utils.NewID())

	return &provider.Meeting{
		ID:       meetingID,
		RoomName: roomName,
		HostURL:  c.wsURL,
		StartsAt: now,
		EndsAt:   now.Add(window),
	}, nil
}

// IssueToken mints a join token scoped to the meeting's room.
func (c *Client) IssueToken(_ context.Context, meetingID, displayName string, window time.Duration) (*provider.Token, error) {
	at := auth.NewAccessToken(c.apiKey, c.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     meetingID,
	}
	at.AddGrant(grant).
		SetIdentity(displayName).
		SetName(displayName).
		SetValidFor(window)

	token, err := at.ToJWT()
	if err != nil {
		return nil, provider.NewError(provider.KindMalformed, 0, fmt.Sprintf("generate token: %v", err))
	}

	return &provider.Token{Value: token, ExpiresAt: time.Now().Add(window)}, nil
}

// Ensure Client implements provider.Client
var _ provider.Client = (*Client)(nil)
