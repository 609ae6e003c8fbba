// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and renders a
// friendly page. HTMX requests get the status with a plain text body.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID), zap.String("role", u.Role))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	if isHTMX(r) {
		http.Error(w, userMsg, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	if isHTMX(r) {
		http.Error(w, userMsg, http.StatusBadRequest)
		return
	}
	renderPage(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogForbidden logs at warn level and renders the access denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	if isHTMX(r) {
		http.Error(w, userMsg, http.StatusForbidden)
		return
	}
	RenderForbidden(w, r, userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Info(msg, e.fields(r, err)...)
	if isHTMX(r) {
		http.Error(w, userMsg, http.StatusNotFound)
		return
	}
	renderPage(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}
