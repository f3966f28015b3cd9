// Package daily implements provider.Client against the Daily REST API.
package daily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nourhb/video-chat/internal/provider"
)

const defaultTimeout = 10 * time.Second

// Client talks to the Daily rooms and meeting-tokens endpoints.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Daily client. timeout bounds every request; zero means the default (10s).
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type roomProperties struct {
	NotBefore int64 `json:"nbf,omitempty"`
	Expires   int64 `json:"exp,omitempty"`
}

type createRoomRequest struct {
	Name       string         `json:"name"`
	Privacy    string         `json:"privacy"`
	Properties roomProperties `json:"properties"`
}

type roomResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateMeeting creates a room valid from now until now+window.
func (c *Client) CreateMeeting(ctx context.Context, roomName string, window time.Duration) (*provider.Meeting, error) {
	now := time.Now()
	body := createRoomRequest{
		Name:    roomName,
		Privacy: "private",
		Properties: roomProperties{
			NotBefore: now.Unix(),
			Expires:   now.Add(window).Unix(),
		},
	}

	var resp roomResponse
	if err := c.post(ctx, "/rooms", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, provider.NewError(provider.KindMalformed, 0, "room response missing id or url")
	}

	return &provider.Meeting{
		ID:       resp.ID,
		RoomName: resp.Name,
		HostURL:  resp.URL,
		StartsAt: now,
		EndsAt:   now.Add(window),
	}, nil
}

type tokenProperties struct {
	RoomName string `json:"room_name"`
	UserName string `json:"user_name,omitempty"`
	Expires  int64  `json:"exp,omitempty"`
}

type createTokenRequest struct {
	Properties tokenProperties `json:"properties"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken mints a participant token for an existing meeting.
func (c *Client) IssueToken(ctx context.Context, meetingID, displayName string, window time.Duration) (*provider.Token, error) {
	expiresAt := time.Now().Add(window)
	body := createTokenRequest{
		Properties: tokenProperties{
			RoomName: meetingID,
			UserName: displayName,
			Expires:  expiresAt.Unix(),
		},
	}

	var resp tokenResponse
	if err := c.post(ctx, "/meeting-tokens", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, provider.NewError(provider.KindMalformed, 0, "token response missing token")
	}

	return &provider.Token{Value: resp.Token, ExpiresAt: expiresAt}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return provider.NewError(provider.KindMalformed, 0, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return provider.NewError(provider.KindMalformed, 0, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return provider.NewError(provider.KindUnavailable, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return provider.NewError(provider.KindMalformed, resp.StatusCode, fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := string(snippet)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return provider.NewError(provider.KindUnauthorized, resp.StatusCode, msg)
	case resp.StatusCode >= 500:
		return provider.NewError(provider.KindUnavailable, resp.StatusCode, msg)
	default:
		return provider.NewError(provider.KindMalformed, resp.StatusCode, msg)
	}
}

// Ensure Client implements provider.Client
var _ provider.Client = (*Client)(nil)
