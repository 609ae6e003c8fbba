// internal/app/features/employees/handler.go
package employees

import (
	"context"

	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/registration"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"go.uber.org/zap"
)

// listLimit caps the employee list page.
const listLimit = 500

// Lister is the read side of accounts.Store used by the list page.
type Lister interface {
	ListByRole(ctx context.Context, role models.Role, limit int) ([]models.Account, error)
}

// Handler serves the admin employee pages.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Accounts   Lister
	Reg        *registration.Service
}

func NewHandler(
	accounts Lister,
	reg *registration.Service,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Accounts:   accounts,
		Reg:        reg,
	}
}
