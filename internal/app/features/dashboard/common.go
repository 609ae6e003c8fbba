// internal/app/features/dashboard/common.go
package dashboard

import (
	"time"

	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

const (
	dashboardTimeout = 5 * time.Second

	// recentLimit is how many rows a dashboard card shows.
	recentLimit = 5
	// pageLimit caps the full result and notification pages.
	pageLimit = 200
	// failedLoginWindow is the look-back for the admin security card.
	failedLoginWindow = 24 * time.Hour
)

// resultRow is a diagnostic result ready for display.
type resultRow struct {
	ID       uuid.UUID
	Model    string
	Verdict  models.Verdict
	Positive bool
	Patient  string // filled on the employee dashboard only
	Created  time.Time
}

func toResultRows(rs []models.DiagnosticResult) []resultRow {
	rows := make([]resultRow, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, resultRow{
			ID:       r.ID,
			Model:    r.ModelType.Label(),
			Verdict:  r.Verdict,
			Positive: r.Verdict == models.VerdictPositive,
			Created:  r.CreatedAt,
		})
	}
	return rows
}
