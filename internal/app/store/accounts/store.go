// internal/app/store/accounts/store.go

// Package accounts is the PostgreSQL store for users and their profiles.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/neuronest/internal/app/system/dbx"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

// Store reads and writes users and profiles.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// accountColumns is the shared projection for every account lookup.
// Profiles are LEFT JOINed so an orphaned user still loads (with no profile).
const accountColumns = `u.id, u.username, u.email, u.password_hash, u.is_active,
       u.is_superuser, u.is_staff, u.last_login, u.date_joined,
       p.user_id, p.role, p.full_name, p.hospital_patient_id, p.sex, p.age,
       p.personal_email, p.created_at
  FROM users u
  LEFT JOIN profiles p ON p.user_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a         models.Account
		lastLogin sql.NullTime

		pUserID   uuid.NullUUID
		role      sql.NullString
		fullName  sql.NullString
		hospital  sql.NullString
		sex       sql.NullString
		age       sql.NullInt64
		personal  sql.NullString
		createdAt sql.NullTime
	)

	err := row.Scan(
		&a.User.ID, &a.User.Username, &a.User.Email, &a.User.PasswordHash, &a.User.IsActive,
		&a.User.IsSuperuser, &a.User.IsStaff, &lastLogin, &a.User.DateJoined,
		&pUserID, &role, &fullName, &hospital, &sex, &age,
		&personal, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		a.User.LastLogin = &t
	}

	if pUserID.Valid {
		p := &models.Profile{
			UserID:    pUserID.UUID,
			Role:      models.Role(role.String),
			FullName:  fullName.String,
			CreatedAt: createdAt.Time,
		}
		if hospital.Valid {
			v := hospital.String
			p.HospitalPatientID = &v
		}
		if sex.Valid {
			v := models.Sex(sex.String)
			p.Sex = &v
		}
		if age.Valid {
			v := int(age.Int64)
			p.Age = &v
		}
		if personal.Valid {
			v := personal.String
			p.PersonalEmail = &v
		}
		a.Profile = p
	}

	return &a, nil
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
 WHERE ` + where

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// GetByID loads the account with the given user id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.getOne(ctx, `u.id = $1`, id)
}

// GetByUsername loads the account whose username matches exactly.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.getOne(ctx, `u.username = $1`, username)
}

// GetByEmail loads the account whose email matches case-insensitively.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getOne(ctx, `lower(u.email) = lower($1)`, strings.TrimSpace(email))
}

func (s *Store) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

// LoginTaken reports whether value is already used as a username or an email
// by any user, compared case-insensitively.
func (s *Store) LoginTaken(ctx context.Context, value string) (bool, error) {
	return s.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) OR lower(username) = lower($1))`,
		strings.TrimSpace(value))
}

// HospitalIDTaken reports whether a patient already uses hospitalID.
func (s *Store) HospitalIDTaken(ctx context.Context, hospitalID string) (bool, error) {
	return s.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE role = 'patient' AND hospital_patient_id = $1)`,
		strings.TrimSpace(hospitalID))
}

// PersonalEmailTaken reports whether an employee already uses email as
// their personal email, compared case-insensitively.
func (s *Store) PersonalEmailTaken(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE role = 'employee' AND lower(personal_email) = lower($1))`,
		strings.TrimSpace(email))
}

// CreateAccount inserts the user and its profile in a single transaction.
// Zero ids and timestamps are filled in. Unique violations are reported as
// ErrDuplicate* sentinels; on any error neither row is written.
func (s *Store) CreateAccount(ctx context.Context, u *models.User, p *models.Profile) error {
	if u == nil || p == nil {
		return errors.New("create account: user and profile are required")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("create account: invalid role %q", p.Role)
	}

	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = now
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UserID = u.ID

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash, is_active, is_superuser, is_staff, date_joined)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser, u.IsStaff, u.DateJoined)
		if err != nil {
			return mapDuplicate(err)
		}

		var sex *string
		if p.Sex != nil {
			v := string(*p.Sex)
			sex = &v
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, role, full_name, hospital_patient_id, sex, age, personal_email, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.UserID, string(p.Role), p.FullName, p.HospitalPatientID, sex, p.Age, p.PersonalEmail, p.CreatedAt)
		if err != nil {
			return mapDuplicate(err)
		}
		return nil
	})
	if err != nil {
		if IsDuplicate(err) {
			return err
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Activate marks the user active. It is idempotent.
func (s *Store) Activate(ctx context.Context, id uuid.UUID) error {
	return s.updateOne(ctx, `UPDATE users SET is_active = TRUE WHERE id = $1`, id)
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateOne(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at.UTC())
}

func (s *Store) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
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

// ListByRole returns accounts with the given role, newest profile first.
// A limit <= 0 returns every row.
func (s *Store) ListByRole(ctx context.Context, role models.Role, limit int) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + `
 WHERE p.role = $1
 ORDER BY p.created_at DESC, u.id`
	args := []any{string(role)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// CountByRole returns the number of profiles per role. Roles with no
// profiles are present with a zero count.
func (s *Store) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM profiles GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Role]int64, len(models.AllRoles))
	for _, r := range models.AllRoles {
		out[r] = 0
	}
	for rows.Next() {
		var (
			role string
			n    int64
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[models.Role(role)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Ping checks connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
