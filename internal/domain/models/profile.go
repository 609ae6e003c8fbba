// internal/domain/models/profile.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the role-bearing, one-to-one extension of a User.
// It is deleted together with its User.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`

	// Patient-only fields
	HospitalPatientID *string `json:"hospital_patient_id,omitempty"` // unique among patients
	Sex               *Sex    `json:"sex,omitempty"`
	Age               *int    `json:"age,omitempty"`

	// Employee-only fields
	PersonalEmail *string `json:"personal_email,omitempty"` // credential notices go here, not to the login email
}

// Account is a User together with its Profile, if one is linked.
type Account struct {
	User    User
	Profile *Profile
}

// Role is the explicit capability check for the account's portal role.
// ok is false when no Profile is linked (a data-integrity defect).
func (a Account) Role() (role Role, ok bool) {
	if a.Profile == nil {
		return "", false
	}
	return a.Profile.Role, true
}

// DisplayName prefers the profile's full name and falls back to the username.
func (a Account) DisplayName() string {
	if a.Profile != nil && a.Profile.FullName != "" {
		return a.Profile.FullName
	}
	return a.User.Username
}
