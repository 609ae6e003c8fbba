// internal/app/features/auditlog/types.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: the account UUID string stored on the event
//   - identifier: what was typed into a login form, kept in Details

import (
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/paging"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	Timestamp     time.Time
	Category      string
	EventType     string
	Portal        string
	ActorName     string // resolved from ActorID
	TargetName    string // resolved from UserID
	IP            string
	Success       bool
	FailureReason string
	Details       map[string]string
}

// filterForm echoes the submitted filters back into the form.
type filterForm struct {
	Category  string
	EventType string
	UserID    string
	StartDate string
	EndDate   string
}

// listData is the view model for the audit trail page.
type listData struct {
	viewdata.BaseVM
	filterForm

	Items []listItem
	Total int64

	Categories []categoryOption
	EventTypes []string

	paging.Range
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

var authEvents = []string{
	audit.EventLoginSuccess,
	audit.EventLoginFailedInvalidCredentials,
	audit.EventLoginFailedInactive,
	audit.EventLoginFailedPrivileged,
	audit.EventLoginFailedProfileMissing,
	audit.EventLoginFailedRoleMismatch,
	audit.EventLoginFailedRateLimit,
	audit.EventLogout,
	audit.EventSessionReset,
	audit.EventPatientSignup,
	audit.EventVerificationSent,
	audit.EventVerificationResent,
	audit.EventVerificationFailed,
	audit.EventEmailVerified,
}

var adminEvents = []string{
	audit.EventEmployeeCreated,
	audit.EventCredentialsMailFailed,
}

// eventTypesForCategory returns the event types for a given category.
// An empty category returns all of them; an unknown one returns nil.
func eventTypesForCategory(category string) []string {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
