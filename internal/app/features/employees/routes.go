// internal/app/features/employees/routes.go
package employees

import (
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin employee pages at /admin/employees.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole("admin"))
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	return r
}
