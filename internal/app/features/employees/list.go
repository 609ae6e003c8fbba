// internal/app/features/employees/list.go
package employees

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type employeeRow struct {
	FullName      string
	LoginEmail    string
	PersonalEmail string
	Active        bool
	Joined        time.Time
	LastLogin     *time.Time
}

type listData struct {
	viewdata.BaseVM
	Rows []employeeRow
}

// ServeList handles GET /admin/employees, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	accts, err := h.Accounts.ListByRole(ctx, models.RoleEmployee, listLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employees", err, "Could not load employees.", "/admin/dashboard")
		return
	}

	templates.Render(w, r, "employees_list", listData{
		BaseVM: viewdata.NewBaseVM(w, r, "Employees", "/admin/dashboard"),
		Rows:   toRows(accts),
	})
}

func toRows(accts []models.Account) []employeeRow {
	rows := make([]employeeRow, 0, len(accts))
	for _, a := range accts {
		row := employeeRow{
			FullName:   a.DisplayName(),
			LoginEmail: a.User.Email,
			Active:     a.User.IsActive,
			Joined:     a.User.DateJoined,
			LastLogin:  a.User.LastLogin,
		}
		if a.Profile != nil && a.Profile.PersonalEmail != nil {
			row.PersonalEmail = *a.Profile.PersonalEmail
		}
		rows = append(rows, row)
	}
	return rows
}
