package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/presence"
	"github.com/nourhb/video-chat/internal/utils"
)

// NewPresenceHandler upgrades connections and bridges them to the presence hub.
// GET /rooms/ws?roomName=<name>&name=<display name>
func NewPresenceHandler(hub *presence.Hub, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomName := c.Query("roomName")
		if roomName == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Room name is required"})
			return
		}

		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error().Err(err).Msg("ws accept error")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		member := presence.NewMember(utils.NewID(), c.Query("name"))
		hub.Join(roomName, member)
		defer hub.Leave(roomName, member)

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		errCh := make(chan error, 2)
		go func() {
			errCh <- readLoop(ctx, conn)
		}()
		go func() {
			errCh <- writeLoop(ctx, conn, member)
		}()

		err = <-errCh
		cancel() // stop the other goroutine
		<-errCh

		status := websocket.StatusNormalClosure
		reason := "closing"
		if err != nil && !errors.Is(err, context.Canceled) {
			if s := websocket.CloseStatus(err); s != 0 {
				status = s
			}
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				status = websocket.StatusInternalError
				reason = err.Error()
				logger.Warn().Err(err).Str("room", roomName).Msg("ws connection closed with error")
			}
		}

		conn.Close(status, reason)
	}
}

// readLoop drains inbound frames so pings and close frames are processed.
// Presence is one-way: clients only listen.
func readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return err
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, member *presence.Member) error {
	for {
		select {
		case event, ok := <-member.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
