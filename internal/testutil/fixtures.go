package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// HashPassword hashes pw at the minimum bcrypt cost to keep tests fast.
func HashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

// NewAccount builds an account with the given role and login email.
// The username is the email, matching how both signup paths create users.
func NewAccount(t *testing.T, role models.Role, email, password string, active bool) *models.Account {
	t.Helper()

	now := time.Now().UTC()
	id := uuid.New()
	return &models.Account{
		User: models.User{
			ID:           id,
			Username:     email,
			Email:        email,
			PasswordHash: HashPassword(t, password),
			IsActive:     active,
			DateJoined:   now,
		},
		Profile: &models.Profile{
			UserID:    id,
			Role:      role,
			FullName:  "Test " + role.Label(),
			CreatedAt: now,
		},
	}
}

// NewPatient builds an active patient account with a hospital id.
func NewPatient(t *testing.T, email, password string) *models.Account {
	t.Helper()
	a := NewAccount(t, models.RolePatient, email, password, true)
	hid := "H-" + strings.ToUpper(a.User.ID.String()[:8])
	sex := models.SexOther
	age := 42
	a.Profile.HospitalPatientID = &hid
	a.Profile.Sex = &sex
	a.Profile.Age = &age
	return a
}

// NewEmployee builds an active employee account with a personal email.
func NewEmployee(t *testing.T, email, personalEmail, password string) *models.Account {
	t.Helper()
	a := NewAccount(t, models.RoleEmployee, email, password, true)
	a.Profile.PersonalEmail = &personalEmail
	return a
}

// NewAdmin builds an active admin account.
func NewAdmin(t *testing.T, email, password string) *models.Account {
	t.Helper()
	return NewAccount(t, models.RoleAdmin, email, password, true)
}
