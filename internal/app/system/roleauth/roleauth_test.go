package roleauth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/roleauth"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/neuronest/internal/testutil"
	"go.uber.org/zap"
)

const pw = "correct-horse-42"

func newAuthenticator(t *testing.T) (*roleauth.Authenticator, map[string]*models.Account) {
	t.Helper()

	patient := testutil.NewPatient(t, "pat@example.com", pw)
	employee := testutil.NewEmployee(t, "emp@clinic.test", "emp.home@example.com", pw)
	admin := testutil.NewAdmin(t, "admin@clinic.test", pw)

	inactive := testutil.NewAccount(t, models.RolePatient, "new@example.com", pw, false)

	staff := testutil.NewAccount(t, models.RoleAdmin, "staff@clinic.test", pw, true)
	staff.User.IsStaff = true

	orphan := testutil.NewAccount(t, models.RolePatient, "orphan@example.com", pw, true)
	orphan.Profile = nil

	// Username differs from email to exercise the username-first lookup.
	handle := testutil.NewPatient(t, "handle@example.com", pw)
	handle.User.Username = "Pat.Handle"

	accts := map[string]*models.Account{
		"patient":  patient,
		"employee": employee,
		"admin":    admin,
		"inactive": inactive,
		"staff":    staff,
		"orphan":   orphan,
		"handle":   handle,
	}
	store := testutil.NewFakeAccounts(patient, employee, admin, inactive, staff, orphan, handle)
	return roleauth.NewAuthenticator(store, zap.NewNop()), accts
}

func TestAuthenticate(t *testing.T) {
	a, accts := newAuthenticator(t)

	tests := []struct {
		name       string
		identifier string
		password   string
		role       models.Role
		wantErr    error
		wantAcct   string
	}{
		{"patient by email", "pat@example.com", pw, models.RolePatient, nil, "patient"},
		{"email case-insensitive", "PAT@Example.COM", pw, models.RolePatient, nil, "patient"},
		{"employee", "emp@clinic.test", pw, models.RoleEmployee, nil, "employee"},
		{"admin", "admin@clinic.test", pw, models.RoleAdmin, nil, "admin"},
		{"by username", "Pat.Handle", pw, models.RolePatient, nil, "handle"},
		{"username is exact", "pat.handle", pw, models.RolePatient, roleauth.ErrInvalidCredentials, ""},
		{"unknown identifier", "ghost@example.com", pw, models.RolePatient, roleauth.ErrInvalidCredentials, ""},
		{"wrong password", "pat@example.com", "nope-nope", models.RolePatient, roleauth.ErrInvalidCredentials, ""},
		{"empty identifier", "  ", pw, models.RolePatient, roleauth.ErrInvalidCredentials, ""},
		{"inactive", "new@example.com", pw, models.RolePatient, roleauth.ErrAccountInactive, "inactive"},
		{"staff blocked", "staff@clinic.test", pw, models.RoleAdmin, roleauth.ErrPrivilegedAccountBlocked, "staff"},
		{"no profile", "orphan@example.com", pw, models.RolePatient, roleauth.ErrProfileMissing, "orphan"},
		{"patient at employee portal", "pat@example.com", pw, models.RoleEmployee, roleauth.ErrRoleMismatch, "patient"},
		{"employee at admin portal", "emp@clinic.test", pw, models.RoleAdmin, roleauth.ErrRoleMismatch, "employee"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acct, err := a.Authenticate(context.Background(), tc.identifier, tc.password, tc.role)

			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantAcct == "" {
				if acct != nil {
					t.Errorf("expected no account, got %s", acct.User.Username)
				}
				return
			}
			if acct == nil || acct.User.ID != accts[tc.wantAcct].User.ID {
				t.Errorf("expected account %q, got %+v", tc.wantAcct, acct)
			}
		})
	}
}

func TestAuthenticate_WrongPasswordBeforeInactive(t *testing.T) {
	a, _ := newAuthenticator(t)

	// An inactive account with a wrong password must not reveal its state.
	_, err := a.Authenticate(context.Background(), "new@example.com", "wrong-password", models.RolePatient)
	if !errors.Is(err, roleauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	store := testutil.NewFakeAccounts()
	store.Err = errors.New("connection refused")
	a := roleauth.NewAuthenticator(store, zap.NewNop())

	_, err := a.Authenticate(context.Background(), "pat@example.com", pw, models.RolePatient)
	if err == nil || errors.Is(err, roleauth.ErrInvalidCredentials) {
		t.Fatalf("expected a store error, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	if got := roleauth.Message(roleauth.ErrRoleMismatch, models.RoleEmployee); got != "This account is not registered as an employee." {
		t.Errorf("Message(role mismatch) = %q", got)
	}
	if got := roleauth.Message(roleauth.ErrRoleMismatch, models.RolePatient); got != "This account is not registered as a patient." {
		t.Errorf("Message(role mismatch) = %q", got)
	}
	if got := roleauth.Message(roleauth.ErrInvalidCredentials, models.RolePatient); got != "Invalid username/email or password." {
		t.Errorf("Message(invalid) = %q", got)
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name   string
		user   *auth.SessionUser
		action roleauth.Action
		target string
	}{
		{"anonymous", nil, roleauth.ShowLogin, ""},
		{"admin", &auth.SessionUser{ID: "1", Role: "admin"}, roleauth.Redirect, "/admin/dashboard"},
		{"employee", &auth.SessionUser{ID: "2", Role: "employee"}, roleauth.Redirect, "/employee/dashboard"},
		{"patient", &auth.SessionUser{ID: "3", Role: "patient"}, roleauth.Redirect, "/patient/dashboard"},
		{"elevated", &auth.SessionUser{ID: "4", Role: "admin", Privileged: true}, roleauth.SignOutAndReload, ""},
		{"no profile", &auth.SessionUser{ID: "5"}, roleauth.ResetToHome, "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := roleauth.Dispatch(tc.user)
			if d.Action != tc.action {
				t.Errorf("Action = %v, want %v", d.Action, tc.action)
			}
			if d.Target != tc.target {
				t.Errorf("Target = %q, want %q", d.Target, tc.target)
			}
		})
	}
}

func TestDashboardPath_Unknown(t *testing.T) {
	if got := roleauth.DashboardPath("nurse"); got != "/" {
		t.Errorf("DashboardPath(nurse) = %q, want /", got)
	}
}
