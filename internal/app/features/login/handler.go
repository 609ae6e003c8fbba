// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The uuid primary key of the account
//   - identifier: What the user typed on the form (username or email)

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/neuronest/internal/app/features/errors"
	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/ratelimit"
	"github.com/dalemusser/neuronest/internal/app/system/roleauth"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LastLoginRecorder stamps the last successful sign-in. *accounts.Store satisfies it.
type LastLoginRecorder interface {
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Auth       *roleauth.Authenticator
	LastLogin  LastLoginRecorder
	Limiter    *ratelimit.LoginLimiter // nil disables rate limiting
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Portal     string // admin | employee | patient
	Heading    string
	Error      string
	Identifier string // what the user typed
	ReturnURL  string
	CanSignup  bool // patients may self-register
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger,
	authn *roleauth.Authenticator,
	lastLogin LastLoginRecorder,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Auth:       authn,
		LastLogin:  lastLogin,
		Limiter:    limiter,
	}
}

// portal resolves the {role} URL segment. Unknown roles are a 404.
func portal(r *http.Request) (models.Role, bool) {
	return models.ParseRole(chi.URLParam(r, "role"))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login/{role}                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	role, ok := portal(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if h.dispatchSignedIn(w, r, role) {
		return
	}

	h.render(w, r, role, "", "", query.Get(r, "return"))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/{role}                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	role, ok := portal(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if h.dispatchSignedIn(w, r, role) {
		return
	}
	loginPath := auth.LoginPath(string(role))

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", loginPath)
		return
	}

	identifier := strings.TrimSpace(r.FormValue("identifier"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if identifier == "" || password == "" {
		h.render(w, r, role, "Please enter your username or email and your password.", identifier, ret)
		return
	}

	if h.Limiter != nil {
		if allowed, reason := h.Limiter.Check(r, identifier); !allowed {
			h.AuditLog.LoginRateLimited(r.Context(), r, string(role), identifier, reason)
			h.render(w, r, role, reason, identifier, ret)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Auth.Authenticate(ctx, identifier, password, role)
	if err != nil {
		eventType, known := failureEvent(err)
		if !known {
			h.ErrLog.LogServerError(w, r, "authenticate", err, "A server error occurred.", loginPath)
			return
		}
		userID := ""
		if acct != nil {
			userID = acct.User.ID.String()
		}
		h.AuditLog.LoginFailed(ctx, r, eventType, userID, string(role), identifier, err.Error())
		h.render(w, r, role, roleauth.Message(err, role), identifier, ret)
		return
	}

	su := &auth.SessionUser{
		ID:      acct.User.ID.String(),
		Name:    acct.DisplayName(),
		LoginID: acct.User.Username,
		Email:   acct.User.Email,
		Role:    string(role),
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", su.ID))
		h.render(w, r, role, "Unable to create session. Please try again.", identifier, ret)
		return
	}

	if h.LastLogin != nil {
		if err := h.LastLogin.TouchLastLogin(ctx, acct.User.ID, time.Now().UTC()); err != nil {
			h.Log.Warn("record last login failed", zap.Error(err), zap.String("user_id", su.ID))
		}
	}
	if h.Limiter != nil {
		h.Limiter.ResetIdentifier(identifier)
	}
	h.AuditLog.LoginSuccess(ctx, r, su.ID, string(role), identifier)

	http.Redirect(w, r, destination(role, ret), http.StatusSeeOther)
}

// dispatchSignedIn handles a visit to a login page while a session exists,
// for both GET and POST. It reports whether a response was written; when it
// returns false the visitor is anonymous and the login form proceeds.
func (h *Handler) dispatchSignedIn(w http.ResponseWriter, r *http.Request, role models.Role) bool {
	cur, _ := auth.CurrentUser(r)
	d := roleauth.Dispatch(cur)

	switch d.Action {
	case roleauth.Redirect:
		http.Redirect(w, r, d.Target, http.StatusSeeOther)
		return true

	case roleauth.SignOutAndReload:
		h.signOut(w, r)
		h.AuditLog.SessionReset(r.Context(), r, cur.ID, string(role), d.Reason)
		http.Redirect(w, r, auth.LoginPath(string(role)), http.StatusSeeOther)
		return true

	case roleauth.ResetToHome:
		h.Log.Error("signed-in user has no profile; resetting session",
			zap.String("user_id", cur.ID),
			zap.String("login_id", cur.LoginID))
		h.signOut(w, r)
		h.AuditLog.SessionReset(r.Context(), r, cur.ID, string(role), d.Reason)
		http.Redirect(w, r, d.Target, http.StatusSeeOther)
		return true
	}
	return false
}

// failureEvent maps an Authenticate error to its audit event type.
// known is false for store errors.
func failureEvent(err error) (eventType string, known bool) {
	switch {
	case errors.Is(err, roleauth.ErrInvalidCredentials):
		return audit.EventLoginFailedInvalidCredentials, true
	case errors.Is(err, roleauth.ErrAccountInactive):
		return audit.EventLoginFailedInactive, true
	case errors.Is(err, roleauth.ErrPrivilegedAccountBlocked):
		return audit.EventLoginFailedPrivileged, true
	case errors.Is(err, roleauth.ErrProfileMissing):
		return audit.EventLoginFailedProfileMissing, true
	case errors.Is(err, roleauth.ErrRoleMismatch):
		return audit.EventLoginFailedRoleMismatch, true
	}
	return "", false
}

// destination honors a local return path inside the role's own area,
// otherwise the role dashboard.
func destination(role models.Role, ret string) string {
	dash := roleauth.DashboardPath(role)
	dest := urlutil.SafeReturn(ret, "", dash)
	if !strings.HasPrefix(dest, "/"+string(role)+"/") {
		return dash
	}
	return dest
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, role models.Role, msg, identifier, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:     viewdata.NewBaseVM(w, r, role.Label()+" login", "/"),
		Portal:     string(role),
		Heading:    role.Label() + " login",
		Error:      msg,
		Identifier: identifier,
		ReturnURL:  ret,
		CanSignup:  role == models.RolePatient,
	})
}
