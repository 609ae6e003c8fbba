// internal/app/store/accounts/errors.go
package accounts

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("account not found")

	ErrDuplicateUsername      = errors.New("username already registered")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateHospitalID    = errors.New("hospital patient id already registered")
	ErrDuplicatePersonalEmail = errors.New("personal email already registered")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// duplicateByIndex maps unique index names (see migrations) to sentinels.
var duplicateByIndex = map[string]error{
	"users_username_key":               ErrDuplicateUsername,
	"users_email_key":                  ErrDuplicateEmail,
	"profiles_hospital_patient_id_key": ErrDuplicateHospitalID,
	"profiles_personal_email_key":      ErrDuplicatePersonalEmail,
}

// mapDuplicate converts a PostgreSQL unique violation into one of the
// ErrDuplicate* sentinels. Other errors are returned unchanged.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	if sentinel, ok := duplicateByIndex[pgErr.ConstraintName]; ok {
		return sentinel
	}
	return err
}

// IsDuplicate reports whether err is any of the ErrDuplicate* sentinels.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateHospitalID) ||
		errors.Is(err, ErrDuplicatePersonalEmail)
}
