// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"
)

// Routes serves the three portal login pages under /login/{role}.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{role}", h.ServeLogin)
	r.Post("/{role}", h.HandleLoginPost)
	return r
}
