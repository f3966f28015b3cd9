package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nourhb/video-chat/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedParticipants(t *testing.T, st *SQLiteStore) (*store.Patient, *store.Nurse) {
	t.Helper()

	patient, err := st.CreatePatient(context.Background(), &store.Patient{
		FullName: "Amina Ben Salah",
		Email:    "amina@example.com",
		Phone:    "+216 20 000 001",
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	nurse, err := st.CreateNurse(context.Background(), &store.Nurse{
		FullName:     "Nour Gharbi",
		Email:        "nour@example.com",
		Speciality:   "general care",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create nurse: %v", err)
	}
	return patient, nurse
}

func TestPatientCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	patient, _ := seedParticipants(t, st)
	if patient.ID == 0 {
		t.Error("expected patient to get an id")
	}

	got, err := st.GetPatient(ctx, patient.ID)
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if got.FullName != "Amina Ben Salah" || got.Email != "amina@example.com" {
		t.Errorf("unexpected patient: %+v", got)
	}

	got.Phone = "+216 20 999 999"
	got.Notes = "allergic to penicillin"
	if err := st.UpdatePatient(ctx, got); err != nil {
		t.Fatalf("update patient: %v", err)
	}
	got, _ = st.GetPatient(ctx, patient.ID)
	if got.Notes != "allergic to penicillin" {
		t.Errorf("expected updated notes, got %q", got.Notes)
	}

	patients, err := st.ListPatients(ctx)
	if err != nil {
		t.Fatalf("list patients: %v", err)
	}
	if len(patients) != 1 {
		t.Errorf("expected 1 patient, got %d", len(patients))
	}

	if err := st.DeletePatient(ctx, patient.ID); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	if _, err := st.GetPatient(ctx, patient.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeletePatient(ctx, patient.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestNurseLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, nurse := seedParticipants(t, st)

	byEmail, err := st.GetNurseByEmail(ctx, "nour@example.com")
	if err != nil {
		t.Fatalf("get nurse by email: %v", err)
	}
	if byEmail.ID != nurse.ID || byEmail.PasswordHash != "hash" {
		t.Errorf("unexpected nurse: %+v", byEmail)
	}

	if _, err := st.GetNurseByEmail(ctx, "missing@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Duplicate email must be rejected by the unique constraint.
	if _, err := st.CreateNurse(ctx, &store.Nurse{FullName: "Other", Email: "nour@example.com", PasswordHash: "x"}); err == nil {
		t.Error("expected duplicate nurse email to fail")
	}
}

func TestConsultationLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	patient, nurse := seedParticipants(t, st)

	now := time.Now()
	consultation := &store.Consultation{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		NurseID:     nurse.ID,
		ScheduledAt: now.Add(2 * time.Hour),
		Duration:    30 * time.Minute,
		Status:      store.ConsultationScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateConsultation(ctx, consultation); err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	got, err := st.GetConsultation(ctx, consultation.ID)
	if err != nil {
		t.Fatalf("get consultation: %v", err)
	}
	if got.Status != store.ConsultationScheduled || got.Duration != 30*time.Minute {
		t.Errorf("unexpected consultation: %+v", got)
	}
	if got.RoomID != nil {
		t.Error("expected no room reference before opening")
	}

	roomID := "m1"
	roomURL := "https://provider/m1"
	got.RoomID = &roomID
	got.RoomURL = &roomURL
	got.Status = store.ConsultationCompleted
	got.UpdatedAt = time.Now()
	if err := st.UpdateConsultation(ctx, got); err != nil {
		t.Fatalf("update consultation: %v", err)
	}

	got, _ = st.GetConsultation(ctx, consultation.ID)
	if got.RoomID == nil || *got.RoomID != "m1" {
		t.Errorf("expected persisted room id, got %+v", got.RoomID)
	}
	if got.Status != store.ConsultationCompleted {
		t.Errorf("expected completed, got %q", got.Status)
	}

	if _, err := st.GetConsultation(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUpcomingAndDueForReminder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	patient, nurse := seedParticipants(t, st)
	now := time.Now()

	add := func(at time.Time, status store.ConsultationStatus) *store.Consultation {
		t.Helper()
		c := &store.Consultation{
			ID:          uuid.New().String(),
			PatientID:   patient.ID,
			NurseID:     nurse.ID,
			ScheduledAt: at,
			Duration:    30 * time.Minute,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := st.CreateConsultation(ctx, c); err != nil {
			t.Fatalf("create consultation: %v", err)
		}
		return c
	}

	soon := add(now.Add(30*time.Minute), store.ConsultationScheduled)
	add(now.Add(48*time.Hour), store.ConsultationScheduled)
	add(now.Add(45*time.Minute), store.ConsultationCancelled)
	add(now.Add(-time.Hour), store.ConsultationScheduled) // already started

	upcoming, err := st.ListUpcomingConsultations(ctx, 10)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming consultations, got %d", len(upcoming))
	}
	if upcoming[0].ID != soon.ID {
		t.Errorf("expected soonest consultation first, got %q", upcoming[0].ID)
	}

	due, err := st.ListConsultationsDueForReminder(ctx, time.Hour)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].ID != soon.ID {
		t.Fatalf("expected only the soon consultation due, got %d", len(due))
	}

	// Marking the reminder sent removes it from the due list.
	sent := time.Now()
	due[0].ReminderSentAt = &sent
	if err := st.UpdateConsultation(ctx, due[0]); err != nil {
		t.Fatalf("mark reminder sent: %v", err)
	}
	due, _ = st.ListConsultationsDueForReminder(ctx, time.Hour)
	if len(due) != 0 {
		t.Errorf("expected no due consultations after marking, got %d", len(due))
	}
}

func TestDashboardStats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	patient, nurse := seedParticipants(t, st)
	now := time.Now()

	for i, status := range []store.ConsultationStatus{
		store.ConsultationScheduled,
		store.ConsultationScheduled,
		store.ConsultationCompleted,
		store.ConsultationCancelled,
	} {
		c := &store.Consultation{
			ID:          uuid.New().String(),
			PatientID:   patient.ID,
			NurseID:     nurse.ID,
			ScheduledAt: now.Add(time.Duration(i+1) * time.Hour),
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := st.CreateConsultation(ctx, c); err != nil {
			t.Fatalf("create consultation: %v", err)
		}
	}

	stats, err := st.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if stats.Patients != 1 || stats.Nurses != 1 {
		t.Errorf("unexpected participant counts: %+v", stats)
	}
	if stats.Scheduled != 2 || stats.Completed != 1 || stats.Cancelled != 1 {
		t.Errorf("unexpected consultation counts: %+v", stats)
	}
}
