// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it defaults to the landing page.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	renderPage(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it sends a signed-in user back toward their own
// dashboard and anyone else to the landing page.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		fallback := "/"
		if u, ok := auth.CurrentUser(r); ok && u.HasProfile() {
			fallback = "/" + u.Role + "/dashboard"
		}
		backURL = httpnav.ResolveBackURL(r, fallback)
	}
	renderPage(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}
