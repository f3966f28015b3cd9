package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/store"
)

// PatientHandlers provides HTTP handlers for patient record endpoints.
type PatientHandlers struct {
	store store.PatientStore
	log   *zerolog.Logger
}

// NewPatientHandlers creates a new patient handlers instance.
func NewPatientHandlers(st store.PatientStore, logger *zerolog.Logger) *PatientHandlers {
	return &PatientHandlers{
		store: st,
		log:   logger,
	}
}

// PatientRequest represents the create/update patient request body.
type PatientRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// PatientResponse represents a patient in API responses.
type PatientResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
}

// Create handles patient creation.
// POST /api/patients
func (h *PatientHandlers) Create(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid patient request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	patient, err := h.store.CreatePatient(c.Request.Context(), &store.Patient{
		FullName: req.FullName,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "patient with this email already exists"})
			return
		}
		h.log.Error().Err(err).Str("email", req.Email).Msg("failed to create patient")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("patient_id", patient.ID).Msg("patient created")
	c.JSON(http.StatusCreated, patientResponse(patient))
}

// Get handles fetching a single patient.
// GET /api/patients/:id
func (h *PatientHandlers) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	patient, err := h.store.GetPatient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "patient not found"})
			return
		}
		h.log.Error().Err(err).Int64("patient_id", id).Msg("failed to get patient")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, patientResponse(patient))
}

// List handles listing all patients.
// GET /api/patients
func (h *PatientHandlers) List(c *gin.Context) {
	patients, err := h.store.ListPatients(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list patients")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		response = append(response, patientResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// Update handles updating a patient record.
// PUT /api/patients/:id
func (h *PatientHandlers) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid patient request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.store.UpdatePatient(c.Request.Context(), &store.Patient{
		ID:       id,
		FullName: req.FullName,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "patient not found"})
			return
		}
		h.log.Error().Err(err).Int64("patient_id", id).Msg("failed to update patient")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	patient, err := h.store.GetPatient(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("patient_id", id).Msg("failed to reload patient")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, patientResponse(patient))
}

// Delete handles removing a patient record.
// DELETE /api/patients/:id
func (h *PatientHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeletePatient(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "patient not found"})
			return
		}
		h.log.Error().Err(err).Int64("patient_id", id).Msg("failed to delete patient")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func patientResponse(p *store.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
