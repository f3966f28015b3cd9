package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nourhb/video-chat/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	phone      TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS nurses (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	speciality    TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS consultations (
	id               TEXT PRIMARY KEY,
	patient_id       INTEGER NOT NULL,
	nurse_id         INTEGER NOT NULL,
	scheduled_at     DATETIME NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 1800,
	status           TEXT NOT NULL DEFAULT 'scheduled',
	room_id          TEXT,
	room_url         TEXT,
	reminder_sent_at DATETIME,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (patient_id) REFERENCES patients(id),
	FOREIGN KEY (nurse_id) REFERENCES nurses(id)
);

CREATE INDEX IF NOT EXISTS idx_consultations_scheduled ON consultations(status, scheduled_at);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file (":memory:" for tests).
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== PatientStore implementation ====

// CreatePatient inserts a new patient record.
func (s *SQLiteStore) CreatePatient(ctx context.Context, p *store.Patient) (*store.Patient, error) {
	query := `
		INSERT INTO patients (full_name, email, phone, notes)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, p.FullName, p.Email, p.Phone, p.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetPatient(ctx, id)
}

// GetPatient retrieves a patient by ID.
func (s *SQLiteStore) GetPatient(ctx context.Context, id int64) (*store.Patient, error) {
	query := `
		SELECT id, full_name, email, phone, notes, created_at
		FROM patients
		WHERE id = ?
	`
	var p store.Patient
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Notes, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select patient: %w", err)
	}
	return &p, nil
}

// ListPatients lists all patients ordered by name.
func (s *SQLiteStore) ListPatients(ctx context.Context) ([]*store.Patient, error) {
	query := `
		SELECT id, full_name, email, phone, notes, created_at
		FROM patients
		ORDER BY full_name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select patients: %w", err)
	}
	defer rows.Close()

	var patients []*store.Patient
	for rows.Next() {
		var p store.Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

// UpdatePatient overwrites mutable patient fields.
func (s *SQLiteStore) UpdatePatient(ctx context.Context, p *store.Patient) error {
	query := `
		UPDATE patients
		SET full_name = ?, email = ?, phone = ?, notes = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, p.FullName, p.Email, p.Phone, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return affectedOrNotFound(result)
}

// DeletePatient removes a patient record.
func (s *SQLiteStore) DeletePatient(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return affectedOrNotFound(result)
}

// ==== NurseStore implementation ====

// CreateNurse inserts a new nurse account.
func (s *SQLiteStore) CreateNurse(ctx context.Context, n *store.Nurse) (*store.Nurse, error) {
	query := `
		INSERT INTO nurses (full_name, email, speciality, password_hash)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, n.FullName, n.Email, n.Speciality, n.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("insert nurse: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetNurse(ctx, id)
}

// GetNurse retrieves a nurse by ID.
func (s *SQLiteStore) GetNurse(ctx context.Context, id int64) (*store.Nurse, error) {
	query := `
		SELECT id, full_name, email, speciality, password_hash, created_at
		FROM nurses
		WHERE id = ?
	`
	return s.scanNurse(s.db.QueryRowContext(ctx, query, id))
}

// GetNurseByEmail retrieves a nurse by email for login.
func (s *SQLiteStore) GetNurseByEmail(ctx context.Context, email string) (*store.Nurse, error) {
	query := `
		SELECT id, full_name, email, speciality, password_hash, created_at
		FROM nurses
		WHERE email = ?
	`
	return s.scanNurse(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteStore) scanNurse(row *sql.Row) (*store.Nurse, error) {
	var n store.Nurse
	err := row.Scan(&n.ID, &n.FullName, &n.Email, &n.Speciality, &n.PasswordHash, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select nurse: %w", err)
	}
	return &n, nil
}

// ListNurses lists all nurses ordered by name.
func (s *SQLiteStore) ListNurses(ctx context.Context) ([]*store.Nurse, error) {
	query := `
		SELECT id, full_name, email, speciality, password_hash, created_at
		FROM nurses
		ORDER BY full_name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select nurses: %w", err)
	}
	defer rows.Close()

	var nurses []*store.Nurse
	for rows.Next() {
		var n store.Nurse
		if err := rows.Scan(&n.ID, &n.FullName, &n.Email, &n.Speciality, &n.PasswordHash, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan nurse: %w", err)
		}
		nurses = append(nurses, &n)
	}
	return nurses, rows.Err()
}

// ==== ConsultationStore implementation ====

// CreateConsultation inserts a new consultation.
func (s *SQLiteStore) CreateConsultation(ctx context.Context, c *store.Consultation) error {
	query := `
		INSERT INTO consultations (id, patient_id, nurse_id, scheduled_at, duration_seconds, status, room_id, room_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.PatientID, c.NurseID, c.ScheduledAt, int64(c.Duration.Seconds()),
		string(c.Status), c.RoomID, c.RoomURL, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

// GetConsultation retrieves a consultation by ID.
func (s *SQLiteStore) GetConsultation(ctx context.Context, id string) (*store.Consultation, error) {
	query := `
		SELECT id, patient_id, nurse_id, scheduled_at, duration_seconds, status, room_id, room_url, reminder_sent_at, created_at, updated_at
		FROM consultations
		WHERE id = ?
	`
	return scanConsultation(s.db.QueryRowContext(ctx, query, id))
}

// UpdateConsultation overwrites status, room and reminder fields.
func (s *SQLiteStore) UpdateConsultation(ctx context.Context, c *store.Consultation) error {
	query := `
		UPDATE consultations
		SET scheduled_at = ?, duration_seconds = ?, status = ?, room_id = ?, room_url = ?, reminder_sent_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		c.ScheduledAt, int64(c.Duration.Seconds()), string(c.Status),
		c.RoomID, c.RoomURL, c.ReminderSentAt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return affectedOrNotFound(result)
}

// ListUpcomingConsultations lists scheduled consultations starting after now.
func (s *SQLiteStore) ListUpcomingConsultations(ctx context.Context, limit int) ([]*store.Consultation, error) {
	query := `
		SELECT id, patient_id, nurse_id, scheduled_at, duration_seconds, status, room_id, room_url, reminder_sent_at, created_at, updated_at
		FROM consultations
		WHERE status = 'scheduled' AND scheduled_at >= ?
		ORDER BY scheduled_at
		LIMIT ?
	`
	return s.queryConsultations(ctx, query, time.Now(), limit)
}

// ListConsultationsDueForReminder lists scheduled consultations starting
// within the lead window that have not had a reminder sent yet.
func (s *SQLiteStore) ListConsultationsDueForReminder(ctx context.Context, lead time.Duration) ([]*store.Consultation, error) {
	now := time.Now()
	query := `
		SELECT id, patient_id, nurse_id, scheduled_at, duration_seconds, status, room_id, room_url, reminder_sent_at, created_at, updated_at
		FROM consultations
		WHERE status = 'scheduled'
		  AND reminder_sent_at IS NULL
		  AND scheduled_at >= ?
		  AND scheduled_at <= ?
		ORDER BY scheduled_at
	`
	return s.queryConsultations(ctx, query, now, now.Add(lead))
}

func (s *SQLiteStore) queryConsultations(ctx context.Context, query string, args ...any) ([]*store.Consultation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select consultations: %w", err)
	}
	defer rows.Close()

	var consultations []*store.Consultation
	for rows.Next() {
		c, err := scanConsultationRows(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, c)
	}
	return consultations, rows.Err()
}

// GetDashboardStats returns aggregate counters.
func (s *SQLiteStore) GetDashboardStats(ctx context.Context) (*store.DashboardStats, error) {
	stats := &store.DashboardStats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&stats.Patients); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nurses`).Scan(&stats.Nurses); err != nil {
		return nil, fmt.Errorf("count nurses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM consultations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count consultations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan consultation count: %w", err)
		}
		switch store.ConsultationStatus(status) {
		case store.ConsultationScheduled:
			stats.Scheduled = count
		case store.ConsultationCompleted:
			stats.Completed = count
		case store.ConsultationCancelled:
			stats.Cancelled = count
		}
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row *sql.Row) (*store.Consultation, error) {
	c, err := scanConsultationFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

func scanConsultationRows(rows *sql.Rows) (*store.Consultation, error) {
	return scanConsultationFrom(rows)
}

func scanConsultationFrom(row rowScanner) (*store.Consultation, error) {
	var c store.Consultation
	var durationSeconds int64
	var status string
	err := row.Scan(
		&c.ID, &c.PatientID, &c.NurseID, &c.ScheduledAt, &durationSeconds,
		&status, &c.RoomID, &c.RoomURL, &c.ReminderSentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan consultation: %w", err)
	}
	c.Duration = time.Duration(durationSeconds) * time.Second
	c.Status = store.ConsultationStatus(status)
	return &c, nil
}

func affectedOrNotFound(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Ensure SQLiteStore implements store.Store
var _ store.Store = (*SQLiteStore)(nil)
