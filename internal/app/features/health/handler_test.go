package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/neuronest/internal/app/features/health"
	"go.uber.org/zap"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Audit    string `json:"audit"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name         string
		postgres     health.Pinger
		mongo        health.Pinger
		wantCode     int
		wantStatus   string
		wantDatabase string
		wantAudit    string
	}{
		{"all connected", pinger{}, pinger{}, http.StatusOK, "ok", "connected", "connected"},
		{"audit disabled", pinger{}, nil, http.StatusOK, "ok", "connected", "disabled"},
		{"audit down", pinger{}, pinger{err: down}, http.StatusOK, "degraded", "connected", "disconnected"},
		{"postgres down", pinger{err: down}, pinger{}, http.StatusServiceUnavailable, "error", "disconnected", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := health.NewHandler(tc.postgres, tc.mongo, zap.NewNop())
			rec, resp := serve(t, h)

			if rec.Code != tc.wantCode {
				t.Errorf("status code: got %d, want %d", rec.Code, tc.wantCode)
			}
			if resp.Status != tc.wantStatus {
				t.Errorf("status: got %q, want %q", resp.Status, tc.wantStatus)
			}
			if resp.Database != tc.wantDatabase {
				t.Errorf("database: got %q, want %q", resp.Database, tc.wantDatabase)
			}
			if resp.Audit != tc.wantAudit {
				t.Errorf("audit: got %q, want %q", resp.Audit, tc.wantAudit)
			}
		})
	}
}

func TestServe_PostgresDownReportsError(t *testing.T) {
	h := health.NewHandler(pinger{err: errors.New("boom")}, nil, zap.NewNop())
	_, resp := serve(t, h)

	if resp.Message != "Database unavailable" {
		t.Errorf("message: got %q", resp.Message)
	}
	if resp.Error != "boom" {
		t.Errorf("error: got %q, want %q", resp.Error, "boom")
	}
}
