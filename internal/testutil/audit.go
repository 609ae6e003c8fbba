package testutil

import (
	"context"
	"sync"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// AuditRecorder is an in-memory audit store.
type AuditRecorder struct {
	mu     sync.Mutex
	Events []audit.Event
}

func (a *AuditRecorder) Log(_ context.Context, e audit.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, e)
	return nil
}

// Types returns the recorded event types in order.
func (a *AuditRecorder) Types() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.Events))
	for i, e := range a.Events {
		out[i] = e.EventType
	}
	return out
}

// NewAuditLogger returns an audit logger that stores every event in rec only.
func NewAuditLogger(rec *AuditRecorder) *auditlog.Logger {
	return auditlog.New(rec, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
}
