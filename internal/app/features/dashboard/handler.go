// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountReader is the part of accounts.Store the dashboards read.
type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListByRole(ctx context.Context, role models.Role, limit int) ([]models.Account, error)
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
}

// ResultReader is the part of results.Store the dashboards use.
type ResultReader interface {
	ListForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]models.DiagnosticResult, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]models.DiagnosticResult, error)
	ListNotifications(ctx context.Context, patientID uuid.UUID, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, patientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, patientID, notificationID uuid.UUID) error
}

// FailedLoginCounter reports recent login failures. audit.Store satisfies it.
type FailedLoginCounter interface {
	CountFailedLogins(ctx context.Context, since time.Time) (int64, error)
}

type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Accounts AccountReader
	Results  ResultReader
	Audit    FailedLoginCounter // nil when audit storage is disabled
}

func NewHandler(accounts AccountReader, results ResultReader, audit FailedLoginCounter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Accounts: accounts,
		Results:  results,
		Audit:    audit,
	}
}
