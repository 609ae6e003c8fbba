// internal/app/features/dashboard/patient.go
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/results"
	"github.com/dalemusser/neuronest/internal/app/system/authz"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type notificationRow struct {
	ID      uuid.UUID
	Title   string
	Message string
	IsRead  bool
	Created time.Time
}

type patientData struct {
	viewdata.BaseVM
	UnreadCount   int64
	Results       []resultRow
	Notifications []notificationRow
}

type resultsData struct {
	viewdata.BaseVM
	Results []resultRow
}

type notificationsData struct {
	viewdata.BaseVM
	Notifications []notificationRow
}

func toNotificationRows(ns []models.Notification) []notificationRow {
	rows := make([]notificationRow, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, notificationRow{
			ID:      n.ID,
			Title:   n.Title,
			Message: n.Message,
			IsRead:  n.IsRead,
			Created: n.CreatedAt,
		})
	}
	return rows
}

// ServePatient handles GET /patient/dashboard.
func (h *Handler) ServePatient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()
	pid := authz.UserID(r)

	unread, err := h.Results.UnreadCount(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count unread notifications", err, "Could not load your dashboard.", "/")
		return
	}
	rs, err := h.Results.ListForPatient(ctx, pid, recentLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list patient results", err, "Could not load your dashboard.", "/")
		return
	}
	ns, err := h.Results.ListNotifications(ctx, pid, recentLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notifications", err, "Could not load your dashboard.", "/")
		return
	}

	templates.Render(w, r, "patient_dashboard", patientData{
		BaseVM:        viewdata.NewBaseVM(w, r, "My Dashboard", "/"),
		UnreadCount:   unread,
		Results:       toResultRows(rs),
		Notifications: toNotificationRows(ns),
	})
}

// ServeResults handles GET /patient/results.
func (h *Handler) ServeResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	rs, err := h.Results.ListForPatient(ctx, authz.UserID(r), pageLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list patient results", err, "Could not load your results.", "/patient/dashboard")
		return
	}

	templates.Render(w, r, "patient_results", resultsData{
		BaseVM:  viewdata.NewBaseVM(w, r, "My Results", "/patient/dashboard"),
		Results: toResultRows(rs),
	})
}

// ServeNotifications handles GET /patient/notifications.
func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	ns, err := h.Results.ListNotifications(ctx, authz.UserID(r), pageLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notifications", err, "Could not load your notifications.", "/patient/dashboard")
		return
	}

	templates.Render(w, r, "patient_notifications", notificationsData{
		BaseVM:        viewdata.NewBaseVM(w, r, "Notifications", "/patient/dashboard"),
		Notifications: toNotificationRows(ns),
	})
}

// HandleMarkRead handles POST /patient/notifications/{id}/read. Another
// patient's notification is reported as not found.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	nid, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad notification id", err, "Notification not found.", "/patient/notifications")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	if err := h.Results.MarkRead(ctx, authz.UserID(r), nid); err != nil {
		if errors.Is(err, results.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "notification not found", err, "Notification not found.", "/patient/notifications")
			return
		}
		h.ErrLog.LogServerError(w, r, "mark notification read", err, "Could not update the notification.", "/patient/notifications")
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/patient/notifications", http.StatusSeeOther)
}
