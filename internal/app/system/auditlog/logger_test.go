package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"github.com/dalemusser/neuronest/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memStore records events in memory.
type memStore struct {
	events []audit.Event
	err    error
}

func (m *memStore) Log(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, "u1", "patient", "pat@example.com")
	logger.Logout(ctx, req, "u1", "patient")
	logger.EmployeeCreated(ctx, req, "a1", "e1", "emp@example.com", true)
}

func TestLogger_Log_Settings(t *testing.T) {
	tests := []struct {
		setting string
		wantDB  int
		wantZap int
	}{
		{"all", 1, 1},
		{"db", 1, 0},
		{"log", 0, 1},
		{"off", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.setting, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			store := &memStore{}
			logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: tc.setting, Admin: "off"})
			req := httptest.NewRequest("POST", "/login/patient", nil)

			logger.LoginSuccess(context.Background(), req, "u1", "patient", "pat@example.com")

			if len(store.events) != tc.wantDB {
				t.Errorf("db events = %d, want %d", len(store.events), tc.wantDB)
			}
			if logs.Len() != tc.wantZap {
				t.Errorf("zap entries = %d, want %d", logs.Len(), tc.wantZap)
			}
		})
	}
}

func TestLogger_NilStoreFallsBackToZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("POST", "/logout", nil)

	logger.Logout(context.Background(), req, "u1", "employee")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 zap entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["event_type"]; got != audit.EventLogout {
		t.Errorf("event_type = %v, want %q", got, audit.EventLogout)
	}
}

func TestLogger_StoreErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := &memStore{err: errors.New("mongo down")}
	logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("GET", "/", nil)

	logger.EmailVerified(context.Background(), req, "u1")

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}

func TestLogger_LoginFailed_Fields(t *testing.T) {
	store := &memStore{}
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("POST", "/login/employee", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	logger.LoginFailed(context.Background(), req, audit.EventLoginFailedRoleMismatch, "u1", "employee", "pat@example.com", "role mismatch")

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	e := store.events[0]
	if e.Success {
		t.Error("expected success=false")
	}
	if e.Category != audit.CategoryAuth || e.Portal != "employee" {
		t.Errorf("unexpected classification: %+v", e)
	}
	if e.IP != "203.0.113.9" {
		t.Errorf("IP = %q, want forwarded address", e.IP)
	}
	if e.Details["identifier"] != "pat@example.com" {
		t.Errorf("identifier detail = %q", e.Details["identifier"])
	}
}

func TestLogger_VerificationSent_MailFailure(t *testing.T) {
	store := &memStore{}
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("POST", "/signup/patient", nil)

	logger.VerificationSent(context.Background(), req, "u1", "pat@example.com", true, errors.New("smtp refused"))

	e := store.events[0]
	if e.EventType != audit.EventVerificationResent {
		t.Errorf("EventType = %q, want %q", e.EventType, audit.EventVerificationResent)
	}
	if e.Success || e.FailureReason != "smtp refused" {
		t.Errorf("expected failed event with reason, got %+v", e)
	}
}

func TestLogger_EmployeeCreated_AdminCategory(t *testing.T) {
	store := &memStore{}
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"})
	req := httptest.NewRequest("POST", "/admin/employees", nil)

	logger.EmployeeCreated(context.Background(), req, "admin-1", "emp-1", "emp@clinic.test", false)
	logger.Logout(context.Background(), req, "admin-1", "admin")

	if len(store.events) != 1 {
		t.Fatalf("expected only the admin event, got %d", len(store.events))
	}
	e := store.events[0]
	if e.ActorID != "admin-1" || e.UserID != "emp-1" {
		t.Errorf("unexpected ids: %+v", e)
	}
	if e.Details["credentials_mailed"] != "false" {
		t.Errorf("credentials_mailed = %q", e.Details["credentials_mailed"])
	}
}
