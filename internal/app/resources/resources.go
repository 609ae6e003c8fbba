// internal/app/resources/resources.go

// Package resources holds the templates every page shares: the layout
// head and foot, the role menu, flash messages, the CSRF hidden field and
// the form error list. Feature template sets call into these by name.
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// SetName is the template set the shared partials register under.
const SetName = "shared"

// Shared template names feature pages depend on.
var SharedTemplates = []string{
	"layout_head",
	"layout_foot",
	"menu",
	"flashes",
	"csrf_field",
	"form_errors",
}

//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// LoadSharedTemplates registers the shared set. Safe to call more than
// once; bootstrap calls it from Startup before the engine boots.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     SetName,
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
