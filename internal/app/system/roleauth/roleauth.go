// internal/app/system/roleauth/roleauth.go

// Package roleauth decides who may enter which portal. It holds the pure
// credential and role checks; the login feature turns its answers into
// sessions, redirects and audit events.
package roleauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/neuronest/internal/app/store/accounts"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/authutil"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials       = errors.New("invalid username/email or password")
	ErrAccountInactive          = errors.New("account is not active")
	ErrPrivilegedAccountBlocked = errors.New("elevated accounts cannot use the portal")
	ErrProfileMissing           = errors.New("account has no profile")
	ErrRoleMismatch             = errors.New("account role does not match this portal")
)

// AccountLookup resolves login identifiers. *accounts.Store satisfies it.
type AccountLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Authenticator checks credentials against the account store.
type Authenticator struct {
	accounts AccountLookup
	log      *zap.Logger
}

// NewAuthenticator returns an Authenticator.
func NewAuthenticator(lookup AccountLookup, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{accounts: lookup, log: logger}
}

// resolve finds the account for identifier: exact username first, then
// case-insensitive email. A nil account with nil error means not found.
func (a *Authenticator) resolve(ctx context.Context, identifier string) (*models.Account, error) {
	acct, err := a.accounts.GetByUsername(ctx, identifier)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	acct, err = a.accounts.GetByEmail(ctx, identifier)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// Authenticate verifies identifier/password and that the account may use
// the portal for requiredRole. Checks run in a fixed order: credentials,
// active flag, elevated flags, profile presence, role.
//
// Once the password has matched, the account is returned alongside any
// later error so callers can attribute the failure.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string, requiredRole models.Role) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		authutil.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}

	acct, err := a.resolve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve login: %w", err)
	}
	if acct == nil {
		authutil.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if !authutil.CheckPassword(password, acct.User.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !acct.User.IsActive {
		return acct, ErrAccountInactive
	}
	if acct.User.IsPrivileged() {
		return acct, ErrPrivilegedAccountBlocked
	}
	role, ok := acct.Role()
	if !ok {
		a.log.Error("account has no profile",
			zap.String("user_id", acct.User.ID.String()),
			zap.String("username", acct.User.Username))
		return acct, ErrProfileMissing
	}
	if role != requiredRole {
		return acct, ErrRoleMismatch
	}
	return acct, nil
}

// Message is the text shown on the login form for an Authenticate error.
func Message(err error, portal models.Role) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username/email or password."
	case errors.Is(err, ErrAccountInactive):
		return "Your account is not active yet. Please check your email for the verification link."
	case errors.Is(err, ErrPrivilegedAccountBlocked):
		return "This account cannot sign in to the portal."
	case errors.Is(err, ErrProfileMissing):
		return "Your account is not set up correctly. Please contact support."
	case errors.Is(err, ErrRoleMismatch):
		return fmt.Sprintf("This account is not registered as %s %s.", article(portal.Label()), strings.ToLower(portal.Label()))
	}
	return "Something went wrong. Please try again."
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}

/*─────────────────────────────────────────────────────────────────────────────*
| Dispatch                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Action is what a login entry point should do for the current session.
type Action int

const (
	// ShowLogin renders the login form; nobody is signed in.
	ShowLogin Action = iota
	// Redirect sends the signed-in user to Decision.Target.
	Redirect
	// SignOutAndReload ends the session and reloads the same login page.
	SignOutAndReload
	// ResetToHome ends the session and sends the browser to "/".
	ResetToHome
)

// Decision is the outcome of Dispatch.
type Decision struct {
	Action Action
	Target string
	Reason string
}

// DashboardPath is the landing page for role, or "/" for an unknown role.
func DashboardPath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleEmployee:
		return "/employee/dashboard"
	case models.RolePatient:
		return "/patient/dashboard"
	}
	return "/"
}

// Dispatch decides what a login page does when visited with a session.
// Valid users go to their own dashboard whichever portal they opened.
func Dispatch(current *auth.SessionUser) Decision {
	if current == nil {
		return Decision{Action: ShowLogin}
	}
	if current.Privileged {
		return Decision{Action: SignOutAndReload, Reason: "elevated account"}
	}
	role, ok := models.ParseRole(current.Role)
	if !ok {
		return Decision{Action: ResetToHome, Target: "/", Reason: "profile missing"}
	}
	return Decision{Action: Redirect, Target: DashboardPath(role)}
}
