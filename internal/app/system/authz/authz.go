// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

// UserCtx returns the user's role (lowercased), name, account UUID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", uuid.Nil, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid id.
func UserCtx(r *http.Request) (role string, name string, userID uuid.UUID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", uuid.Nil, false
	}
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", uuid.Nil, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// UserID returns the signed-in user's id, or uuid.Nil.
func UserID(r *http.Request) uuid.UUID {
	_, _, id, _ := UserCtx(r)
	return id
}

// IsAdmin reports whether the current request's user uses the admin portal.
// Elevated (superuser/staff) accounts never count.
func IsAdmin(r *http.Request) bool {
	return portalRole(r, models.RoleAdmin)
}

// IsEmployee reports whether the current request's user is an employee.
func IsEmployee(r *http.Request) bool {
	return portalRole(r, models.RoleEmployee)
}

// IsPatient reports whether the current request's user is a patient.
func IsPatient(r *http.Request) bool {
	return portalRole(r, models.RolePatient)
}

func portalRole(r *http.Request, want models.Role) bool {
	user, ok := auth.CurrentUser(r)
	if !ok || user.Privileged {
		return false
	}
	role, _, _, ok := UserCtx(r)
	return ok && role == string(want)
}
