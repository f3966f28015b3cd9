package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/rooms"
)

// RoomHandlers provides HTTP handlers for the room booking endpoints.
type RoomHandlers struct {
	coordinator *rooms.Coordinator
	registry    *rooms.Registry
	log         *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(coordinator *rooms.Coordinator, registry *rooms.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		coordinator: coordinator,
		registry:    registry,
		log:         logger,
	}
}

// EnsureRoomRequest represents the room request body.
type EnsureRoomRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
	Action          string `json:"action"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ExistsResponse represents the room existence response body.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// EnsureRoom handles room creation and joining.
// POST /rooms
func (h *RoomHandlers) EnsureRoom(c *gin.Context) {
	var req EnsureRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Room name is required"})
		return
	}

	action := rooms.ActionCreate
	if req.Action == string(rooms.ActionJoin) {
		action = rooms.ActionJoin
	}

	descriptor, err := h.coordinator.EnsureRoom(c.Request.Context(), req.RoomName, req.ParticipantName, action)
	if err != nil {
		if errors.Is(err, rooms.ErrInvalidRoomName) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Room name is required"})
			return
		}
		h.log.Error().Err(err).Str("room_name", req.RoomName).Msg("failed to ensure room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Details: err.Error()})
		return
	}

	h.log.Info().
		Str("room_name", descriptor.RoomName).
		Str("room_id", descriptor.RoomID).
		Bool("is_existing", descriptor.IsExisting).
		Bool("is_mock", descriptor.IsMock).
		Msg("room ensured")
	c.JSON(http.StatusOK, descriptor)
}

// RoomExists reports whether a room is registered.
// GET /rooms?roomName=<name>
func (h *RoomHandlers) RoomExists(c *gin.Context) {
	name := c.Query("roomName")
	c.JSON(http.StatusOK, ExistsResponse{Exists: name != "" && h.registry.Exists(name)})
}
