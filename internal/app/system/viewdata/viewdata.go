// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/authz"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	Dashboard  string // the signed-in user's dashboard path

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string // Token for form submission

	// One-time messages queued by a previous request
	Flashes []auth.Flash
}

var (
	siteName = models.DefaultSiteName
	sessions *auth.SessionManager
)

// Init sets the site name and the session manager used to pop flash
// messages. Call this once at startup from bootstrap.
func Init(name string, sm *auth.SessionManager) {
	if name != "" {
		siteName = name
	}
	sessions = sm
}

// SiteName returns the configured site name.
func SiteName() string { return siteName }

// NewBaseVM creates a fully populated BaseVM for a page. It consumes any
// pending flash messages, so call it once per rendered page.
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    siteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if pr, ok := authz.PortalRole(r); ok {
		vm.Dashboard = dashboardPath(pr)
	}
	if sessions != nil && w != nil {
		vm.Flashes = sessions.PopFlashes(w, r)
	}
	return vm
}

func dashboardPath(role models.Role) string {
	return "/" + string(role) + "/dashboard"
}
