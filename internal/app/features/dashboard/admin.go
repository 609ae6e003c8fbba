// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type personRow struct {
	Name   string
	Email  string
	Active bool
	Joined time.Time
}

type adminData struct {
	viewdata.BaseVM

	AdminsCount    int64
	EmployeesCount int64
	PatientsCount  int64

	ShowFailedLogins bool
	FailedLogins     int64

	RecentEmployees []personRow
	RecentPatients  []personRow
}

// ServeAdmin handles GET /admin/dashboard.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	counts, err := h.Accounts.CountByRole(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count accounts", err, "Could not load the dashboard.", "/")
		return
	}

	data := adminData{
		AdminsCount:    counts[models.RoleAdmin],
		EmployeesCount: counts[models.RoleEmployee],
		PatientsCount:  counts[models.RolePatient],
	}

	// Cards below are best-effort; a failure leaves them empty.
	if h.Audit != nil {
		n, err := h.Audit.CountFailedLogins(ctx, time.Now().Add(-failedLoginWindow))
		if err != nil {
			h.Log.Warn("count failed logins", zap.Error(err))
		} else {
			data.ShowFailedLogins = true
			data.FailedLogins = n
		}
	}
	data.RecentEmployees = h.recentPeople(ctx, models.RoleEmployee)
	data.RecentPatients = h.recentPeople(ctx, models.RolePatient)

	data.BaseVM = viewdata.NewBaseVM(w, r, "Admin Dashboard", "/")
	templates.Render(w, r, "admin_dashboard", data)
}

func (h *Handler) recentPeople(ctx context.Context, role models.Role) []personRow {
	accts, err := h.Accounts.ListByRole(ctx, role, recentLimit)
	if err != nil {
		h.Log.Warn("list recent accounts", zap.String("role", string(role)), zap.Error(err))
		return nil
	}
	rows := make([]personRow, 0, len(accts))
	for _, a := range accts {
		rows = append(rows, personRow{
			Name:   a.DisplayName(),
			Email:  a.User.Email,
			Active: a.User.IsActive,
			Joined: a.User.DateJoined,
		})
	}
	return rows
}
