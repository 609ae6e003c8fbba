// internal/app/features/dashboard/employee.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/authz"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
)

type employeeData struct {
	viewdata.BaseVM
	Results []resultRow
}

// ServeEmployee handles GET /employee/dashboard: the results this
// employee recorded, newest first.
func (h *Handler) ServeEmployee(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	rs, err := h.Results.ListByEmployee(ctx, authz.UserID(r), pageLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employee results", err, "Could not load your results.", "/")
		return
	}

	rows := toResultRows(rs)
	names := make(map[uuid.UUID]string)
	for i, res := range rs {
		name, ok := names[res.PatientID]
		if !ok {
			name = "Unknown patient"
			if acct, err := h.Accounts.GetByID(ctx, res.PatientID); err == nil {
				name = acct.DisplayName()
			}
			names[res.PatientID] = name
		}
		rows[i].Patient = name
	}

	templates.Render(w, r, "employee_dashboard", employeeData{
		BaseVM:  viewdata.NewBaseVM(w, r, "Employee Dashboard", "/"),
		Results: rows,
	})
}
