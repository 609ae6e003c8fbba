// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventQuerier reads the audit trail. *audit.Store satisfies it.
type EventQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// NameLookup resolves account ids to display names.
type NameLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Events   EventQuerier
	Accounts NameLookup
}

// NewHandler constructs the audit trail handler. Bootstrap only mounts it
// when the Mongo audit store is configured.
func NewHandler(events EventQuerier, accounts NameLookup, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Events:   events,
		Accounts: accounts,
	}
}
