// internal/app/store/results/store.go

// Package results is the PostgreSQL store for diagnostic results and the
// patient notifications that announce them.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/neuronest/internal/app/system/dbx"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

// MaxTitleLength matches the notifications.title column.
const MaxTitleLength = 120

var (
	// ErrNotFound is returned when a notification does not exist or belongs
	// to another patient.
	ErrNotFound = errors.New("notification not found")
	// ErrInvalid is returned for results or notifications that violate the
	// column constraints.
	ErrInvalid = errors.New("invalid result")
)

// Store reads and writes diagnostic results and notifications.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const resultColumns = `id, patient_id, employee_id, model_type, verdict, created_at`

func scanResult(rows *sql.Rows) (models.DiagnosticResult, error) {
	var (
		r        models.DiagnosticResult
		employee uuid.NullUUID
		model    string
		verdict  string
	)
	if err := rows.Scan(&r.ID, &r.PatientID, &employee, &model, &verdict, &r.CreatedAt); err != nil {
		return r, err
	}
	if employee.Valid {
		id := employee.UUID
		r.EmployeeID = &id
	}
	r.ModelType = models.ModelType(model)
	r.Verdict = models.Verdict(verdict)
	return r, nil
}

func (s *Store) listResults(ctx context.Context, column string, id uuid.UUID, limit int) ([]models.DiagnosticResult, error) {
	query := `SELECT ` + resultColumns + `
  FROM diagnostic_results
 WHERE ` + column + ` = $1
 ORDER BY created_at DESC, id`
	args := []any{id}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.DiagnosticResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// ListForPatient returns a patient's results, newest first.
// A limit <= 0 returns every row.
func (s *Store) ListForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]models.DiagnosticResult, error) {
	return s.listResults(ctx, "patient_id", patientID, limit)
}

// ListByEmployee returns results recorded by an employee, newest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]models.DiagnosticResult, error) {
	return s.listResults(ctx, "employee_id", employeeID, limit)
}

// ListNotifications returns a patient's notifications, unread first and
// then newest first.
func (s *Store) ListNotifications(ctx context.Context, patientID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `SELECT id, patient_id, result_id, title, message, is_read, created_at
  FROM notifications
 WHERE patient_id = $1
 ORDER BY is_read, created_at DESC, id`
	args := []any{patientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.PatientID, &n.ResultID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// UnreadCount returns how many of a patient's notifications are unread.
func (s *Store) UnreadCount(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE patient_id = $1 AND is_read = FALSE`,
		patientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the patient's notifications read. A notification
// owned by another patient reports ErrNotFound. It is idempotent.
func (s *Store) MarkRead(ctx context.Context, patientID, notificationID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND patient_id = $2`,
		notificationID, patientID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func validate(r *models.DiagnosticResult, n *models.Notification) error {
	switch r.ModelType {
	case models.ModelBrainTumor, models.ModelFracture, models.ModelPneumonia:
	default:
		return fmt.Errorf("%w: model type %q", ErrInvalid, r.ModelType)
	}
	switch r.Verdict {
	case models.VerdictPositive, models.VerdictNegative:
	default:
		return fmt.Errorf("%w: verdict %q", ErrInvalid, r.Verdict)
	}
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient is required", ErrInvalid)
	}
	if n != nil {
		n.Title = strings.TrimSpace(n.Title)
		if n.Title == "" || utf8.RuneCountInString(n.Title) > MaxTitleLength {
			return fmt.Errorf("%w: notification title must be 1-%d characters", ErrInvalid, MaxTitleLength)
		}
	}
	return nil
}

// Record inserts a result and, when n is non-nil, the notification that
// announces it to the patient, in one transaction. Zero ids and timestamps
// are filled in.
func (s *Store) Record(ctx context.Context, r *models.DiagnosticResult, n *models.Notification) error {
	if r == nil {
		return errors.New("record result: result is required")
	}
	if err := validate(r, n); err != nil {
		return err
	}

	now := time.Now().UTC()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if n != nil {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		n.PatientID = r.PatientID
		n.ResultID = r.ID
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var employee uuid.NullUUID
		if r.EmployeeID != nil {
			employee = uuid.NullUUID{UUID: *r.EmployeeID, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostic_results (id, patient_id, employee_id, model_type, verdict, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, r.PatientID, employee, string(r.ModelType), string(r.Verdict), r.CreatedAt); err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (id, patient_id, result_id, title, message, is_read, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			n.ID, n.PatientID, n.ResultID, n.Title, n.Message, n.IsRead, n.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
