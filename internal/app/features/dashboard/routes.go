// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes is mounted at /admin/dashboard.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole("admin"))
	r.Get("/", h.ServeAdmin)
	return r
}

// EmployeeRoutes is mounted at /employee.
func EmployeeRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole("employee"))
	r.Get("/dashboard", h.ServeEmployee)
	return r
}

// PatientRoutes is mounted at /patient.
func PatientRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole("patient"))
	r.Get("/dashboard", h.ServePatient)
	r.Get("/results", h.ServeResults)
	r.Get("/notifications", h.ServeNotifications)
	r.Post("/notifications/{id}/read", h.HandleMarkRead)
	return r
}
