package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/service/consultations"
	"github.com/nourhb/video-chat/internal/store"
)

// ConsultationHandlers provides HTTP handlers for consultation scheduling endpoints.
type ConsultationHandlers struct {
	service *consultations.Service
	log     *zerolog.Logger
}

// NewConsultationHandlers creates a new consultation handlers instance.
func NewConsultationHandlers(service *consultations.Service, logger *zerolog.Logger) *ConsultationHandlers {
	return &ConsultationHandlers{
		service: service,
		log:     logger,
	}
}

// ScheduleRequest represents the schedule consultation request body.
type ScheduleRequest struct {
	PatientID       int64     `json:"patientId" binding:"required"`
	NurseID         int64     `json:"nurseId" binding:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
}

// OpenRoomRequest represents the open room request body.
type OpenRoomRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"`
}

// ConsultationResponse represents a consultation in API responses.
type ConsultationResponse struct {
	ID              string  `json:"id"`
	PatientID       int64   `json:"patientId"`
	NurseID         int64   `json:"nurseId"`
	ScheduledAt     string  `json:"scheduledAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	RoomID          *string `json:"roomId,omitempty"`
	RoomURL         *string `json:"roomUrl,omitempty"`
}

// DashboardResponse represents the dashboard statistics body.
type DashboardResponse struct {
	Patients  int64                  `json:"patients"`
	Nurses    int64                  `json:"nurses"`
	Scheduled int64                  `json:"scheduled"`
	Completed int64                  `json:"completed"`
	Cancelled int64                  `json:"cancelled"`
	Upcoming  []ConsultationResponse `json:"upcoming"`
}

// Schedule handles booking a consultation.
// POST /api/consultations
func (h *ConsultationHandlers) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid schedule request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	consultation, err := h.service.Schedule(
		c.Request.Context(),
		req.PatientID, req.NurseID,
		req.ScheduledAt, time.Duration(req.DurationMinutes)*time.Minute,
	)
	if err != nil {
		switch {
		case errors.Is(err, consultations.ErrPatientNotFound),
			errors.Is(err, consultations.ErrNurseNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, consultations.ErrScheduledInPast):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			h.log.Error().Err(err).Msg("failed to schedule consultation")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("consultation_id", consultation.ID).Msg("consultation scheduled")
	c.JSON(http.StatusCreated, consultationResponse(consultation))
}

// Get handles fetching a single consultation.
// GET /api/consultations/:id
func (h *ConsultationHandlers) Get(c *gin.Context) {
	consultation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "consultation not found"})
		return
	}
	c.JSON(http.StatusOK, consultationResponse(consultation))
}

// ListUpcoming handles listing upcoming consultations.
// GET /api/consultations
func (h *ConsultationHandlers) ListUpcoming(c *gin.Context) {
	list, err := h.service.ListUpcoming(c.Request.Context(), 50)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list consultations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]ConsultationResponse, 0, len(list))
	for _, consultation := range list {
		response = append(response, consultationResponse(consultation))
	}
	c.JSON(http.StatusOK, response)
}

// OpenRoom ensures a video room for the consultation and returns the room descriptor.
// POST /api/consultations/:id/room
func (h *ConsultationHandlers) OpenRoom(c *gin.Context) {
	var req OpenRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid open room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	descriptor, err := h.service.OpenRoom(c.Request.Context(), c.Param("id"), req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, consultations.ErrConsultationNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "consultation not found"})
		case errors.Is(err, consultations.ErrConsultationClosed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "consultation is completed or cancelled"})
		default:
			h.log.Error().Err(err).Str("consultation_id", c.Param("id")).Msg("failed to open room")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, descriptor)
}

// Cancel marks a consultation as cancelled.
// POST /api/consultations/:id/cancel
func (h *ConsultationHandlers) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// Complete marks a consultation as completed.
// POST /api/consultations/:id/complete
func (h *ConsultationHandlers) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *ConsultationHandlers) transition(c *gin.Context, fn func(ctx context.Context, id string) error) {
	err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, consultations.ErrConsultationNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "consultation not found"})
		case errors.Is(err, consultations.ErrConsultationClosed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "consultation is completed or cancelled"})
		default:
			h.log.Error().Err(err).Str("consultation_id", c.Param("id")).Msg("failed to update consultation")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard returns aggregate statistics with upcoming consultations.
// GET /api/dashboard
func (h *ConsultationHandlers) Dashboard(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load dashboard stats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	upcoming, err := h.service.ListUpcoming(c.Request.Context(), 10)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load upcoming consultations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := DashboardResponse{
		Patients:  stats.Patients,
		Nurses:    stats.Nurses,
		Scheduled: stats.Scheduled,
		Completed: stats.Completed,
		Cancelled: stats.Cancelled,
		Upcoming:  make([]ConsultationResponse, 0, len(upcoming)),
	}
	for _, consultation := range upcoming {
		response.Upcoming = append(response.Upcoming, consultationResponse(consultation))
	}
	c.JSON(http.StatusOK, response)
}

func consultationResponse(c *store.Consultation) ConsultationResponse {
	return ConsultationResponse{
		ID:              c.ID,
		PatientID:       c.PatientID,
		NurseID:         c.NurseID,
		ScheduledAt:     c.ScheduledAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationMinutes: int(c.Duration.Minutes()),
		Status:          string(c.Status),
		RoomID:          c.RoomID,
		RoomURL:         c.RoomURL,
	}
}
