// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"
	"time"

	auditfeature "github.com/dalemusser/neuronest/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/neuronest/internal/app/features/dashboard"
	_ "github.com/dalemusser/neuronest/internal/app/features/dashboard/views"
	employeesfeature "github.com/dalemusser/neuronest/internal/app/features/employees"
	errorsfeature "github.com/dalemusser/neuronest/internal/app/features/errors"
	healthfeature "github.com/dalemusser/neuronest/internal/app/features/health"
	homefeature "github.com/dalemusser/neuronest/internal/app/features/home"
	_ "github.com/dalemusser/neuronest/internal/app/features/home/views"
	loginfeature "github.com/dalemusser/neuronest/internal/app/features/login"
	logoutfeature "github.com/dalemusser/neuronest/internal/app/features/logout"
	signupfeature "github.com/dalemusser/neuronest/internal/app/features/signup"
	"github.com/dalemusser/neuronest/internal/app/store/accounts"
	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/store/results"
	"github.com/dalemusser/neuronest/internal/app/system/auditlog"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/mailer"
	"github.com/dalemusser/neuronest/internal/app/system/ratelimit"
	"github.com/dalemusser/neuronest/internal/app/system/registration"
	"github.com/dalemusser/neuronest/internal/app/system/roleauth"
	"github.com/dalemusser/neuronest/internal/app/system/verifytoken"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const (
	mailTimeout        = 15 * time.Second
	loginIPWindow      = time.Minute
	loginAccountWindow = 5 * time.Minute
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. NeuroNest boots the template engine,
// builds the stores and services, applies session and CSRF middleware, and
// mounts the feature routers: public pages, the three role-gated login
// portals, patient signup and verification, and the admin, employee and
// patient areas.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	// Stores
	accountStore := accounts.New(deps.Postgres)
	resultStore := results.New(deps.Postgres)

	// Audit trail. The store stays a nil interface when Mongo is off so the
	// audit logger, dashboard and health check all see "disabled".
	var (
		auditStore  auditlog.Store
		failedCount dashboardfeature.FailedLoginCounter
		mongoPinger healthfeature.Pinger
		auditEvents auditfeature.EventQuerier
	)
	if deps.MongoDatabase != nil {
		s := audit.New(deps.MongoDatabase)
		auditStore, failedCount, mongoPinger, auditEvents = s, s, s, s
	}
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the account on every request so deactivation
	// and profile changes take effect immediately.
	sessionMgr.SetUserFetcher(accounts.NewFetcher(accountStore))
	viewdata.Init(appCfg.SiteName, sessionMgr)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Services
	tokens, err := verifytoken.New(appCfg.TokenSecret, appCfg.EmailVerifyExpiry)
	if err != nil {
		logger.Error("verification token generator init failed", zap.Error(err))
		return nil, err
	}
	sender, err := buildMailSender(appCfg, logger)
	if err != nil {
		logger.Error("mailer init failed", zap.Error(err))
		return nil, err
	}
	reg := registration.New(accountStore, tokens, sender, registration.Config{
		SiteName:  appCfg.SiteName,
		BaseURL:   appCfg.BaseURL,
		Passwords: passwordPolicy(appCfg),
	}, logger)
	authn := roleauth.NewAuthenticator(accountStore, logger)
	limiter := ratelimit.NewLoginLimiterWithConfig(appCfg.LoginIPLimit, loginIPWindow, appCfg.LoginAccountLimit, loginAccountWindow)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// CSRF protection for every form post. The key is derived from the
	// session key so one secret covers both cookies.
	csrfKey := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
	protect := csrf.Protect(csrfKey[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure(logger))),
	)
	if !secure {
		r.Use(plaintextHTTP)
	}
	r.Use(protect)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(accountStore, mongoPinger, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, errLog, auditLog, authn, accountStore, limiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Patient self-registration and email verification
	signupHandler := signupfeature.NewHandler(reg, sessionMgr, errLog, auditLog, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))
	r.Mount("/verify", signupfeature.VerifyRoutes(signupHandler))

	// Role areas
	dashboardHandler := dashboardfeature.NewHandler(accountStore, resultStore, failedCount, errLog, logger)
	r.Mount("/admin/dashboard", dashboardfeature.AdminRoutes(dashboardHandler, sessionMgr))
	r.Mount("/employee", dashboardfeature.EmployeeRoutes(dashboardHandler, sessionMgr))
	r.Mount("/patient", dashboardfeature.PatientRoutes(dashboardHandler, sessionMgr))

	// The audit trail page needs the Mongo store; without it events only
	// reach the application log.
	if auditEvents != nil {
		auditHandler := auditfeature.NewHandler(auditEvents, accountStore, errLog, logger)
		r.Mount("/admin/audit", auditfeature.Routes(auditHandler, sessionMgr))
	}

	employeesHandler := employeesfeature.NewHandler(accountStore, reg, sessionMgr, errLog, auditLog, logger)
	r.Mount("/admin/employees", employeesfeature.Routes(employeesHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

// buildMailSender returns an SMTP mailer, or a sender that only logs when no
// SMTP host is configured (local development).
func buildMailSender(appCfg AppConfig, logger *zap.Logger) (mailer.Sender, error) {
	if appCfg.MailSMTPHost == "" {
		logger.Warn("mail_smtp_host not set; outgoing mail will be logged, not sent")
		return mailer.LogSender{Log: logger}, nil
	}
	m, err := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
		Timeout:  mailTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// plaintextHTTP marks requests as plain http so the CSRF origin check does
// not demand TLS during local development.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(logger *zap.Logger) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("csrf validation failed",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(csrf.FailureReason(r)))
		http.Error(w, "Your form expired. Reload the page and try again.", http.StatusForbidden)
	}
}
