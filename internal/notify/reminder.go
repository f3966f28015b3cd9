package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/store"
)

// ReminderWorker periodically emails patients ahead of their scheduled
// consultations. Each consultation is reminded at most once.
type ReminderWorker struct {
	store    store.Store
	sender   EmailSender
	interval time.Duration
	lead     time.Duration
	log      *zerolog.Logger
}

// NewReminderWorker creates a reminder worker. interval is how often due
// consultations are swept, lead is how far ahead of the start time the
// reminder goes out.
func NewReminderWorker(st store.Store, sender EmailSender, interval, lead time.Duration, logger *zerolog.Logger) *ReminderWorker {
	return &ReminderWorker{
		store:    st,
		sender:   sender,
		interval: interval,
		lead:     lead,
		log:      logger,
	}
}

// Run sweeps for due reminders until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				w.log.Warn().Err(err).Msg("reminder sweep failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep sends reminders for every consultation starting within the lead
// window that has not been reminded yet. A send failure skips marking so
// the consultation is retried on the next sweep.
func (w *ReminderWorker) Sweep(ctx context.Context) error {
	due, err := w.store.ListConsultationsDueForReminder(ctx, w.lead)
	if err != nil {
		return fmt.Errorf("list due consultations: %w", err)
	}

	for _, consultation := range due {
		patient, err := w.store.GetPatient(ctx, consultation.PatientID)
		if err != nil {
			w.log.Warn().Err(err).Str("consultation_id", consultation.ID).Msg("patient lookup failed, skipping reminder")
			continue
		}

		msg := EmailMessage{
			To:      patient.Email,
			ToName:  patient.FullName,
			Subject: "Upcoming video consultation",
			Body: fmt.Sprintf("Hello %s, your video consultation starts at %s.",
				patient.FullName, consultation.ScheduledAt.Format(time.RFC1123)),
		}
		if err := w.sender.Send(ctx, msg); err != nil {
			w.log.Warn().Err(err).Str("consultation_id", consultation.ID).Msg("reminder send failed")
			continue
		}

		now := time.Now()
		consultation.ReminderSentAt = &now
		consultation.UpdatedAt = now
		if err := w.store.UpdateConsultation(ctx, consultation); err != nil {
			w.log.Warn().Err(err).Str("consultation_id", consultation.ID).Msg("failed to mark reminder sent")
			continue
		}

		w.log.Info().Str("consultation_id", consultation.ID).Str("to", patient.Email).Msg("reminder sent")
	}

	return nil
}
