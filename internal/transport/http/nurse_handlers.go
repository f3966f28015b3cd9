package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/store"
)

// NurseHandlers provides HTTP handlers for nurse listing endpoints.
// Account creation goes through /api/register.
type NurseHandlers struct {
	store store.NurseStore
	log   *zerolog.Logger
}

// NewNurseHandlers creates a new nurse handlers instance.
func NewNurseHandlers(st store.NurseStore, logger *zerolog.Logger) *NurseHandlers {
	return &NurseHandlers{
		store: st,
		log:   logger,
	}
}

// NurseResponse represents a nurse in API responses. The password hash never leaves the store layer.
type NurseResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Speciality string `json:"speciality"`
	CreatedAt  string `json:"createdAt"`
}

// List handles listing all nurses.
// GET /api/nurses
func (h *NurseHandlers) List(c *gin.Context) {
	nurses, err := h.store.ListNurses(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list nurses")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]NurseResponse, 0, len(nurses))
	for _, n := range nurses {
		response = append(response, NurseResponse{
			ID:         n.ID,
			FullName:   n.FullName,
			Email:      n.Email,
			Speciality: n.Speciality,
			CreatedAt:  n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, response)
}
