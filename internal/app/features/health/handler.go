package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is anything that can report connectivity. accounts.Store and
// audit.Store both satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Postgres Pinger
	Mongo    Pinger // nil when audit storage is disabled
	Log      *zap.Logger
}

// NewHandler constructs a health Handler. mongo may be nil.
func NewHandler(postgres, mongo Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Postgres: postgres,
		Mongo:    mongo,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Audit    string `json:"audit"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "audit":"connected" }
//
// "audit" is "disabled" when no Mongo store is configured. A failed audit
// ping degrades the status but still answers 200; the portal keeps working
// and audit events fall back to the application log.
//
// On Postgres failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Audit:    "disabled",
	}

	if err := h.Postgres.Ping(ctx); err != nil {
		h.Log.Error("health-check: postgres ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Audit = ""
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Mongo != nil {
		if err := h.Mongo.Ping(ctx); err != nil {
			h.Log.Warn("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Audit = "disconnected"
			resp.Error = err.Error()
		} else {
			resp.Audit = "connected"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
