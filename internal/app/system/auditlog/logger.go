// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: the account UUID string
//   - identifier: what was typed into the login form (username or email)

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, signup, verification).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (employee provisioning).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Store persists audit events. *audit.Store satisfies it.
type Store interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via Store) and structured logs (via zap).
// A nil Store (Mongo not configured) downgrades "all" and "db" to zap only.
type Logger struct {
	store  Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.Portal != "" {
		fields = append(fields, zap.String("portal", event.Portal))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	toZap := setting == "all" || setting == "log"
	toDB := setting == "all" || setting == "db"
	if toDB && l.store == nil {
		toDB, toZap = false, true
	}

	if toZap {
		l.logToZap(event)
	}

	if toDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func authEvent(r *http.Request, eventType, userID, portal string, success bool) audit.Event {
	return audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		UserID:    userID,
		Portal:    portal,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login through a role portal.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, portal, identifier string) {
	e := authEvent(r, audit.EventLoginSuccess, userID, portal, true)
	e.Details = map[string]string{"identifier": identifier}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected login. eventType is one of the
// audit.EventLoginFailed* constants; userID is empty when the identifier
// did not resolve to an account.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, userID, portal, identifier, reason string) {
	e := authEvent(r, eventType, userID, portal, false)
	e.FailureReason = reason
	e.Details = map[string]string{"identifier": identifier}
	l.Log(ctx, e)
}

// LoginRateLimited logs a login attempt blocked by the rate limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, portal, identifier, limitType string) {
	e := authEvent(r, audit.EventLoginFailedRateLimit, "", portal, false)
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{
		"identifier": identifier,
		"limit_type": limitType,
	}
	l.Log(ctx, e)
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID, role string) {
	l.Log(ctx, authEvent(r, audit.EventLogout, userID, role, true))
}

// SessionReset logs a session terminated by the login dispatcher
// (elevated account or missing profile).
func (l *Logger) SessionReset(ctx context.Context, r *http.Request, userID, portal, reason string) {
	e := authEvent(r, audit.EventSessionReset, userID, portal, false)
	e.FailureReason = reason
	l.Log(ctx, e)
}

// PatientSignup logs a new self-registered patient account.
func (l *Logger) PatientSignup(ctx context.Context, r *http.Request, userID, email string) {
	e := authEvent(r, audit.EventPatientSignup, userID, "patient", true)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// VerificationSent logs a verification link being emailed.
// A mail failure is recorded with success=false.
func (l *Logger) VerificationSent(ctx context.Context, r *http.Request, userID, email string, resend bool, mailErr error) {
	eventType := audit.EventVerificationSent
	if resend {
		eventType = audit.EventVerificationResent
	}
	e := authEvent(r, eventType, userID, "patient", mailErr == nil)
	if mailErr != nil {
		e.FailureReason = mailErr.Error()
	}
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// VerificationFailed logs a rejected verification link.
func (l *Logger) VerificationFailed(ctx context.Context, r *http.Request, userID, reason string) {
	e := authEvent(r, audit.EventVerificationFailed, userID, "patient", false)
	e.FailureReason = reason
	l.Log(ctx, e)
}

// EmailVerified logs a successful activation through a verification link.
func (l *Logger) EmailVerified(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, authEvent(r, audit.EventEmailVerified, userID, "patient", true))
}

// --- Admin Events ---

// EmployeeCreated logs an admin provisioning an employee account.
func (l *Logger) EmployeeCreated(ctx context.Context, r *http.Request, actorID, targetUserID, loginEmail string, credentialsMailed bool) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventEmployeeCreated,
		UserID:    targetUserID,
		ActorID:   actorID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"login_email":        loginEmail,
			"credentials_mailed": strconv.FormatBool(credentialsMailed),
		},
	})
}

// CredentialsMailFailed logs a credentials email that could not be delivered.
func (l *Logger) CredentialsMailFailed(ctx context.Context, r *http.Request, actorID, targetUserID string, mailErr error) {
	reason := ""
	if mailErr != nil {
		reason = mailErr.Error()
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventCredentialsMailFailed,
		UserID:        targetUserID,
		ActorID:       actorID,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}
