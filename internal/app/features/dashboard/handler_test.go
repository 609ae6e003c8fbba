package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/neuronest/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/app/store/results"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/neuronest/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeResults keeps notifications in memory and records calls.
type fakeResults struct {
	notifications map[uuid.UUID]*models.Notification
	err           error
	lastPatient   uuid.UUID
}

func newFakeResults(ns ...models.Notification) *fakeResults {
	f := &fakeResults{notifications: make(map[uuid.UUID]*models.Notification)}
	for i := range ns {
		n := ns[i]
		f.notifications[n.ID] = &n
	}
	return f
}

func (f *fakeResults) ListForPatient(_ context.Context, pid uuid.UUID, _ int) ([]models.DiagnosticResult, error) {
	f.lastPatient = pid
	return nil, f.err
}

func (f *fakeResults) ListByEmployee(_ context.Context, eid uuid.UUID, _ int) ([]models.DiagnosticResult, error) {
	return nil, f.err
}

func (f *fakeResults) ListNotifications(_ context.Context, pid uuid.UUID, _ int) ([]models.Notification, error) {
	return nil, f.err
}

func (f *fakeResults) UnreadCount(_ context.Context, pid uuid.UUID) (int64, error) {
	return 0, f.err
}

func (f *fakeResults) MarkRead(_ context.Context, pid, nid uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	n, ok := f.notifications[nid]
	if !ok || n.PatientID != pid {
		return results.ErrNotFound
	}
	n.IsRead = true
	return nil
}

type fakeAudit struct{ n int64 }

func (f fakeAudit) CountFailedLogins(context.Context, time.Time) (int64, error) { return f.n, nil }

func newTestHandler(t *testing.T, res *fakeResults) *dashboard.Handler {
	t.Helper()
	logger := zap.NewNop()
	return dashboard.NewHandler(testutil.NewFakeAccounts(), res, fakeAudit{n: 3}, uierrors.NewErrorLogger(logger), logger)
}

func markReadRequest(user testutil.TestUser, id string) *http.Request {
	req := testutil.NewAuthenticatedRequest("POST", "/patient/notifications/"+id+"/read", user)
	return testutil.WithChiURLParam(req, "id", id)
}

func TestNewHandler(t *testing.T) {
	if h := newTestHandler(t, newFakeResults()); h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestHandleMarkRead_OwnNotification(t *testing.T) {
	patient := testutil.PatientUser()
	pid := uuid.MustParse(patient.ID)
	n := models.Notification{ID: uuid.New(), PatientID: pid, Title: "Result ready"}
	res := newFakeResults(n)
	h := newTestHandler(t, res)

	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, markReadRequest(patient, n.ID.String()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/patient/notifications" {
		t.Errorf("Location = %q", loc)
	}
	if !res.notifications[n.ID].IsRead {
		t.Error("notification should be marked read")
	}
}

func TestHandleMarkRead_HTMX(t *testing.T) {
	patient := testutil.PatientUser()
	n := models.Notification{ID: uuid.New(), PatientID: uuid.MustParse(patient.ID)}
	h := newTestHandler(t, newFakeResults(n))

	req := markReadRequest(patient, n.ID.String())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestHandleMarkRead_NotFound(t *testing.T) {
	owner := uuid.New()
	n := models.Notification{ID: uuid.New(), PatientID: owner}

	tests := []struct {
		name string
		id   string
	}{
		{"other patient's notification", n.ID.String()},
		{"unknown id", uuid.NewString()},
		{"malformed id", "not-a-uuid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := newFakeResults(n)
			h := newTestHandler(t, res)

			req := markReadRequest(testutil.PatientUser(), tc.id)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			h.HandleMarkRead(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
			if res.notifications[n.ID].IsRead {
				t.Error("another patient's notification must not change")
			}
		})
	}
}

func TestServePatient_StoreError(t *testing.T) {
	res := newFakeResults()
	res.err = errors.New("db down")
	h := newTestHandler(t, res)

	for _, tc := range []struct {
		name string
		fn   http.HandlerFunc
	}{
		{"dashboard", h.ServePatient},
		{"results", h.ServeResults},
		{"notifications", h.ServeNotifications},
		{"employee", h.ServeEmployee},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest("GET", "/", testutil.PatientUser())
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			tc.fn(rec, req)
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
			}
		})
	}
}

func TestServeResults_ScopedToSignedInPatient(t *testing.T) {
	res := newFakeResults()
	h := newTestHandler(t, res)
	patient := testutil.PatientUser()

	func() {
		defer func() { recover() }()
		h.ServeResults(httptest.NewRecorder(), testutil.NewAuthenticatedRequest("GET", "/patient/results", patient))
	}()

	if res.lastPatient.String() != patient.ID {
		t.Errorf("queried patient %s, want %s", res.lastPatient, patient.ID)
	}
}

func TestRoutes_RoleGates(t *testing.T) {
	h := newTestHandler(t, newFakeResults())
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	tests := []struct {
		name   string
		router http.Handler
		path   string
		user   testutil.TestUser
		want   string
	}{
		{"employee on admin", dashboard.AdminRoutes(h, sm), "/", testutil.EmployeeUser(), "/login/admin"},
		{"patient on employee", dashboard.EmployeeRoutes(h, sm), "/dashboard", testutil.PatientUser(), "/login/employee"},
		{"admin on patient", dashboard.PatientRoutes(h, sm), "/results", testutil.AdminUser(), "/login/patient"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", tc.path, tc.user))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tc.want {
				t.Errorf("Location = %q, want %q", loc, tc.want)
			}
		})
	}
}
