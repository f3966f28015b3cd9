package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nourhb/video-chat/internal/log"
	"github.com/nourhb/video-chat/internal/store"
	"github.com/nourhb/video-chat/internal/store/sqlite"
)

// recordingSender captures sent messages and can be made to fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	fail bool
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("send failed")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func seedDueConsultation(t *testing.T, st *sqlite.SQLiteStore, in time.Duration) *store.Consultation {
	t.Helper()
	ctx := context.Background()

	patient, err := st.CreatePatient(ctx, &store.Patient{FullName: "Amina", Email: "amina@example.com"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	nurse, err := st.CreateNurse(ctx, &store.Nurse{FullName: "Nour", Email: "nour@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create nurse: %v", err)
	}

	now := time.Now()
	consultation := &store.Consultation{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		NurseID:     nurse.ID,
		ScheduledAt: now.Add(in),
		Duration:    30 * time.Minute,
		Status:      store.ConsultationScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateConsultation(ctx, consultation); err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	return consultation
}

func TestSweepSendsAndMarks(t *testing.T) {
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer st.Close()

	consultation := seedDueConsultation(t, st, 30*time.Minute)
	sender := &recordingSender{}
	worker := NewReminderWorker(st, sender, time.Minute, time.Hour, log.Disabled())

	if err := worker.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sender.count() != 1 {
		t.Fatalf("expected 1 reminder sent, got %d", sender.count())
	}
	if sender.sent[0].To != "amina@example.com" {
		t.Errorf("unexpected recipient %q", sender.sent[0].To)
	}

	stored, err := st.GetConsultation(context.Background(), consultation.ID)
	if err != nil {
		t.Fatalf("get consultation: %v", err)
	}
	if stored.ReminderSentAt == nil {
		t.Error("expected reminder marked sent")
	}

	// A second sweep must not re-send.
	if err := worker.Sweep(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if sender.count() != 1 {
		t.Errorf("expected no duplicate reminders, got %d", sender.count())
	}
}

func TestSweepRetriesAfterSendFailure(t *testing.T) {
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer st.Close()

	consultation := seedDueConsultation(t, st, 30*time.Minute)
	sender := &recordingSender{fail: true}
	worker := NewReminderWorker(st, sender, time.Minute, time.Hour, log.Disabled())

	if err := worker.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	stored, _ := st.GetConsultation(context.Background(), consultation.ID)
	if stored.ReminderSentAt != nil {
		t.Error("expected failed send to leave consultation unmarked")
	}

	// Next sweep retries and succeeds.
	sender.mu.Lock()
	sender.fail = false
	sender.mu.Unlock()
	if err := worker.Sweep(context.Background()); err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	if sender.count() != 1 {
		t.Errorf("expected retry to send, got %d", sender.count())
	}
}

func TestSweepSkipsFarFutureConsultations(t *testing.T) {
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer st.Close()

	seedDueConsultation(t, st, 48*time.Hour)
	sender := &recordingSender{}
	worker := NewReminderWorker(st, sender, time.Minute, time.Hour, log.Disabled())

	if err := worker.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sender.count() != 0 {
		t.Errorf("expected no reminders outside the lead window, got %d", sender.count())
	}
}
