package consultations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nourhb/video-chat/internal/rooms"
	"github.com/nourhb/video-chat/internal/store"
)

// Common errors for consultation operations.
var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrNurseNotFound        = errors.New("nurse not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrConsultationClosed   = errors.New("consultation is completed or cancelled")
	ErrScheduledInPast      = errors.New("consultation cannot be scheduled in the past")
)

const defaultDuration = 30 * time.Minute

// Service provides consultation scheduling business logic. Room access for
// a consultation goes through the room coordinator; the durable room
// reference on the consultation record is written here, not by the
// coordinator itself.
type Service struct {
	store       store.Store
	coordinator *rooms.Coordinator
}

// New creates a consultation service.
func New(st store.Store, coordinator *rooms.Coordinator) *Service {
	return &Service{
		store:       st,
		coordinator: coordinator,
	}
}

// Schedule books a consultation between a nurse and a patient.
func (s *Service) Schedule(ctx context.Context, patientID, nurseID int64, at time.Time, duration time.Duration) (*store.Consultation, error) {
	if at.Before(time.Now()) {
		return nil, ErrScheduledInPast
	}
	if duration <= 0 {
		duration = defaultDuration
	}

	if _, err := s.store.GetPatient(ctx, patientID); err != nil {
		return nil, ErrPatientNotFound
	}
	if _, err := s.store.GetNurse(ctx, nurseID); err != nil {
		return nil, ErrNurseNotFound
	}

	now := time.Now()
	consultation := &store.Consultation{
		ID:          uuid.New().String(),
		PatientID:   patientID,
		NurseID:     nurseID,
		ScheduledAt: at,
		Duration:    duration,
		Status:      store.ConsultationScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateConsultation(ctx, consultation); err != nil {
		return nil, fmt.Errorf("save consultation: %w", err)
	}

	return consultation, nil
}

// Get retrieves a consultation by ID.
func (s *Service) Get(ctx context.Context, id string) (*store.Consultation, error) {
	consultation, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return nil, ErrConsultationNotFound
	}
	return consultation, nil
}

// OpenRoom ensures a video room exists for the consultation and returns a
// descriptor for the given participant. The room name is derived from the
// consultation ID, so every participant of the same consultation lands in
// the same room. The room reference is persisted on first open.
func (s *Service) OpenRoom(ctx context.Context, consultationID, displayName string) (*rooms.Descriptor, error) {
	consultation, err := s.store.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, ErrConsultationNotFound
	}
	if consultation.Status != store.ConsultationScheduled {
		return nil, ErrConsultationClosed
	}

	action := rooms.ActionCreate
	if consultation.RoomID != nil {
		action = rooms.ActionJoin
	}

	roomName := "consult-" + consultation.ID
	descriptor, err := s.coordinator.EnsureRoom(ctx, roomName, displayName, action)
	if err != nil {
		return nil, fmt.Errorf("ensure room: %w", err)
	}

	if consultation.RoomID == nil {
		consultation.RoomID = &descriptor.RoomID
		consultation.RoomURL = &descriptor.RoomURL
		consultation.UpdatedAt = time.Now()
		if updateErr := s.store.UpdateConsultation(ctx, consultation); updateErr != nil {
			return nil, fmt.Errorf("save room reference: %w", updateErr)
		}
	}

	return descriptor, nil
}

// Cancel marks a consultation as cancelled. Idempotent.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, store.ConsultationCancelled)
}

// Complete marks a consultation as completed. Idempotent.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, store.ConsultationCompleted)
}

func (s *Service) transition(ctx context.Context, id string, status store.ConsultationStatus) error {
	consultation, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return ErrConsultationNotFound
	}
	if consultation.Status == status {
		return nil
	}
	if consultation.Status != store.ConsultationScheduled {
		return ErrConsultationClosed
	}

	consultation.Status = status
	consultation.UpdatedAt = time.Now()
	if err := s.store.UpdateConsultation(ctx, consultation); err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return nil
}

// ListUpcoming lists scheduled consultations starting after now.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]*store.Consultation, error) {
	if limit <= 0 {
		limit = 50
	}
	consultations, err := s.store.ListUpcomingConsultations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}
	return consultations, nil
}

// Stats returns dashboard counters.
func (s *Service) Stats(ctx context.Context) (*store.DashboardStats, error) {
	stats, err := s.store.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
