// internal/domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account identity record. It never carries a role itself;
// the role lives on the one-to-one Profile.
//
// NOTE:
//   - Username and Email are each unique case-insensitively.
//   - IsSuperuser / IsStaff mark accounts reserved for a separate
//     administrative surface. They are never allowed into a portal role.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsStaff      bool       `json:"is_staff"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	DateJoined   time.Time  `json:"date_joined"`
}

// IsPrivileged reports whether the account carries elevated administrative flags.
func (u User) IsPrivileged() bool {
	return u.IsSuperuser || u.IsStaff
}
