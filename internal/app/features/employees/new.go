// internal/app/features/employees/new.go
package employees

import (
	"errors"
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/registration"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type newData struct {
	viewdata.BaseVM
	Errors        []string
	PasswordRules string

	FullName      string
	PersonalEmail string
	AssignedEmail string
}

// ServeNew handles GET /admin/employees/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderNew(w, r, newData{})
}

// HandleCreate handles POST /admin/employees.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/employees/new")
		return
	}

	admin, _ := auth.CurrentUser(r)

	vals := newData{
		FullName:      r.FormValue("full_name"),
		PersonalEmail: r.FormValue("personal_email"),
		AssignedEmail: r.FormValue("assigned_email"),
	}
	in := registration.EmployeeSignup{
		FullName:        vals.FullName,
		PersonalEmail:   vals.PersonalEmail,
		AssignedEmail:   vals.AssignedEmail,
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create employee")
	defer cancel()

	res, err := h.Reg.CreateEmployee(ctx, in, admin)
	if err != nil {
		var ve *registration.ValidationError
		switch {
		case errors.As(err, &ve):
			vals.Errors = ve.Messages()
			h.renderNew(w, r, vals)
		case errors.Is(err, registration.ErrNotAdmin):
			h.ErrLog.LogForbidden(w, r, "create employee by non-admin", err, "Only admins can create employees.", "/")
		default:
			h.ErrLog.LogServerError(w, r, "create employee", err, "Could not create the employee.", "/admin/employees")
		}
		return
	}

	empID := res.Account.User.ID.String()
	h.AuditLog.EmployeeCreated(ctx, r, admin.ID, empID, res.Account.User.Email, res.MailErr == nil)

	if res.MailErr != nil {
		h.AuditLog.CredentialsMailFailed(ctx, r, admin.ID, empID, res.MailErr)
		h.Log.Warn("employee created without credentials email",
			zap.String("user_id", empID),
			zap.Error(res.MailErr))
		h.SessionMgr.AddFlash(w, r, auth.FlashWarning,
			"Employee created, but the credentials email could not be sent. Share the login details another way.")
	} else {
		h.SessionMgr.AddFlash(w, r, auth.FlashSuccess,
			"Employee created. Login details were sent to their personal email.")
	}
	http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
}

func (h *Handler) renderNew(w http.ResponseWriter, r *http.Request, data newData) {
	data.BaseVM = viewdata.NewBaseVM(w, r, "New employee", "/admin/employees")
	data.PasswordRules = h.Reg.PasswordRules()
	templates.Render(w, r, "employees_new", data)
}
