// internal/app/features/signup/routes.go
package signup

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the patient self-signup form at /signup.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/patient", h.ServeSignup)
	r.Post("/patient", h.HandleSignup)
	return r
}

// VerifyRoutes mounts the email verification pages at /verify.
func VerifyRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/sent", h.ServeVerifySent)
	r.Post("/resend", h.HandleResend)
	r.Get("/{uid}/{token}", h.HandleVerify)
	return r
}
