// Command seed populates the database with sample patients, nurses and
// consultations for local development.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"time"

	"github.com/google/uuid"

	"github.com/nourhb/video-chat/internal/auth"
	"github.com/nourhb/video-chat/internal/store"
	"github.com/nourhb/video-chat/internal/store/sqlite"
)

func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "videochat.db", "path to sqlite database")
	flag.Parse()

	st, err := sqlite.New(dbPath)
	if err != nil {
		stdlog.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	patients := []*store.Patient{
		{FullName: "Amina Ben Salah", Email: "amina@example.com", Phone: "+216 20 000 001"},
		{FullName: "Karim Haddad", Email: "karim@example.com", Phone: "+216 20 000 002"},
		{FullName: "Leila Trabelsi", Email: "leila@example.com", Phone: "+216 20 000 003"},
	}
	for i, p := range patients {
		created, err := st.CreatePatient(ctx, p)
		if err != nil {
			stdlog.Fatalf("seed patient %s: %v", p.Email, err)
		}
		patients[i] = created
	}

	passwordHash, err := auth.HashPassword("changeme")
	if err != nil {
		stdlog.Fatalf("hash password: %v", err)
	}
	nurse, err := st.CreateNurse(ctx, &store.Nurse{
		FullName:     "Nour Gharbi",
		Email:        "nour@example.com",
		Speciality:   "general care",
		PasswordHash: passwordHash,
	})
	if err != nil {
		stdlog.Fatalf("seed nurse: %v", err)
	}

	now := time.Now()
	for i, p := range patients {
		consultation := &store.Consultation{
			ID:          uuid.New().String(),
			PatientID:   p.ID,
			NurseID:     nurse.ID,
			ScheduledAt: now.Add(time.Duration(i+1) * 24 * time.Hour),
			Duration:    30 * time.Minute,
			Status:      store.ConsultationScheduled,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := st.CreateConsultation(ctx, consultation); err != nil {
			stdlog.Fatalf("seed consultation for %s: %v", p.Email, err)
		}
	}

	stdlog.Printf("seeded %d patients, 1 nurse, %d consultations into %s", len(patients), len(patients), dbPath)
}
