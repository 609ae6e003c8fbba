// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/authz"
	"github.com/dalemusser/neuronest/internal/app/system/registration"
	"github.com/dalemusser/neuronest/internal/app/system/roleauth"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/neuronest/internal/app/system/verifytoken"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Reg        *registration.Service
}

func NewHandler(
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
		Reg:        reg,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type signupFormData struct {
	viewdata.BaseVM
	Errors        []string
	PasswordRules string

	// Sticky values (passwords are never echoed back)
	FullName          string
	Email             string
	HospitalPatientID string
	Sex               string
	Age               string
}

type verifySentData struct {
	viewdata.BaseVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup/patient                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	if role, ok := authz.PortalRole(r); ok {
		http.Redirect(w, r, roleauth.DashboardPath(role), http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, signupFormData{})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup/patient                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup/patient")
		return
	}

	vals := signupFormData{
		FullName:          r.FormValue("full_name"),
		Email:             r.FormValue("email"),
		HospitalPatientID: r.FormValue("hospital_patient_id"),
		Sex:               r.FormValue("sex"),
		Age:               strings.TrimSpace(r.FormValue("age")),
	}

	in := registration.PatientSignup{
		FullName:          vals.FullName,
		Email:             vals.Email,
		HospitalPatientID: vals.HospitalPatientID,
		Sex:               vals.Sex,
		Password:          r.FormValue("password"),
		ConfirmPassword:   r.FormValue("confirm_password"),
	}
	if vals.Age != "" {
		age, err := strconv.Atoi(vals.Age)
		if err != nil {
			vals.Errors = []string{"Age must be a whole number."}
			h.renderForm(w, r, vals)
			return
		}
		in.Age = &age
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "patient signup")
	defer cancel()

	res, err := h.Reg.SignupPatient(ctx, in)
	if err != nil {
		var ve *registration.ValidationError
		if errors.As(err, &ve) {
			vals.Errors = ve.Messages()
			h.renderForm(w, r, vals)
			return
		}
		h.ErrLog.LogServerError(w, r, "patient signup", err, "We could not create your account. Please try again.", "/signup/patient")
		return
	}

	userID := res.Account.User.ID.String()
	h.AuditLog.PatientSignup(ctx, r, userID, res.Account.User.Email)
	h.AuditLog.VerificationSent(ctx, r, userID, res.Account.User.Email, false, res.MailErr)

	if res.MailErr != nil {
		h.SessionMgr.AddFlash(w, r, auth.FlashWarning,
			"Your account was created, but we could not send the verification email. Use the form below to send it again.")
	}
	http.Redirect(w, r, "/verify/sent", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /verify/sent                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeVerifySent(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "verify_sent", verifySentData{
		BaseVM: viewdata.NewBaseVM(w, r, "Check your email", "/"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /verify/resend                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleResend always reports the same outcome so the form cannot be used
// to discover which addresses are registered.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/verify/sent")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "resend verification")
	defer cancel()

	res, err := h.Reg.ResendVerification(ctx, r.FormValue("email"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resend verification", err, "A server error occurred.", "/verify/sent")
		return
	}
	if res.Account != nil {
		h.AuditLog.VerificationSent(ctx, r, res.Account.User.ID.String(), res.Account.User.Email, true, res.MailErr)
	}

	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess,
		"If that address belongs to an account waiting for verification, a new link is on its way.")
	http.Redirect(w, r, "/verify/sent", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /verify/{uid}/{token}                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Reg.VerifyEmail(ctx, chi.URLParam(r, "uid"), chi.URLParam(r, "token"))
	if err != nil {
		userID := ""
		if acct != nil {
			userID = acct.User.ID.String()
		}
		h.AuditLog.VerificationFailed(ctx, r, userID, err.Error())

		// Expired links land on the resend form; anything else goes home.
		if errors.Is(err, verifytoken.ErrExpired) {
			h.SessionMgr.AddFlash(w, r, auth.FlashError, "This verification link has expired. Request a new one below.")
			http.Redirect(w, r, "/verify/sent", http.StatusSeeOther)
			return
		}
		h.SessionMgr.AddFlash(w, r, auth.FlashError, "This verification link is invalid or has already been used.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.AuditLog.EmailVerified(ctx, r, acct.User.ID.String())
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Your email has been verified. You can now log in.")
	http.Redirect(w, r, auth.LoginPath("patient"), http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data signupFormData) {
	data.BaseVM = viewdata.NewBaseVM(w, r, "Patient sign up", "/")
	data.PasswordRules = h.Reg.PasswordRules()
	templates.Render(w, r, "signup_patient", data)
}
