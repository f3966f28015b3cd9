package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Patient represents a patient record.
type Patient struct {
	ID        int64
	FullName  string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// Nurse represents a staff account that can schedule and run consultations.
type Nurse struct {
	ID           int64
	FullName     string
	Email        string
	Speciality   string
	PasswordHash string
	CreatedAt    time.Time
}

// ConsultationStatus defines the lifecycle of a consultation.
type ConsultationStatus string

const (
	ConsultationScheduled ConsultationStatus = "scheduled"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// Consultation represents a scheduled video consultation between a nurse
// and a patient. RoomID/RoomURL are filled in once a room is opened for it.
type Consultation struct {
	ID             string // UUID
	PatientID      int64
	NurseID        int64
	ScheduledAt    time.Time
	Duration       time.Duration
	Status         ConsultationStatus
	RoomID         *string
	RoomURL        *string
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DashboardStats aggregates counters for the staff dashboard.
type DashboardStats struct {
	Patients  int64
	Nurses    int64
	Scheduled int64
	Completed int64
	Cancelled int64
}

// PatientStore handles patient persistence.
type PatientStore interface {
	// CreatePatient inserts a new patient record.
	CreatePatient(ctx context.Context, p *Patient) (*Patient, error)

	// GetPatient retrieves a patient by ID.
	GetPatient(ctx context.Context, id int64) (*Patient, error)

	// ListPatients lists all patients ordered by name.
	ListPatients(ctx context.Context) ([]*Patient, error)

	// UpdatePatient overwrites mutable patient fields.
	UpdatePatient(ctx context.Context, p *Patient) error

	// DeletePatient removes a patient record.
	DeletePatient(ctx context.Context, id int64) error
}

// NurseStore handles nurse persistence.
type NurseStore interface {
	// CreateNurse inserts a new nurse account.
	CreateNurse(ctx context.Context, n *Nurse) (*Nurse, error)

	// GetNurse retrieves a nurse by ID.
	GetNurse(ctx context.Context, id int64) (*Nurse, error)

	// GetNurseByEmail retrieves a nurse by email for login.
	GetNurseByEmail(ctx context.Context, email string) (*Nurse, error)

	// ListNurses lists all nurses ordered by name.
	ListNurses(ctx context.Context) ([]*Nurse, error)
}

// ConsultationStore handles consultation persistence.
type ConsultationStore interface {
	// CreateConsultation inserts a new consultation.
	CreateConsultation(ctx context.Context, c *Consultation) error

	// GetConsultation retrieves a consultation by ID.
	GetConsultation(ctx context.Context, id string) (*Consultation, error)

	// UpdateConsultation overwrites status, room and reminder fields.
	UpdateConsultation(ctx context.Context, c *Consultation) error

	// ListUpcomingConsultations lists scheduled consultations starting after now.
	ListUpcomingConsultations(ctx context.Context, limit int) ([]*Consultation, error)

	// ListConsultationsDueForReminder lists scheduled consultations starting
	// within the lead window that have not had a reminder sent yet.
	ListConsultationsDueForReminder(ctx context.Context, lead time.Duration) ([]*Consultation, error)

	// GetDashboardStats returns aggregate counters.
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	PatientStore
	NurseStore
	ConsultationStore

	// Close closes the underlying database connection.
	Close() error
}
