// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/system/paging"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/neuronest/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// parseFilter reads the filter form. Unknown categories, event types,
// user ids and dates are dropped rather than rejected.
func parseFilter(r *http.Request) (audit.QueryFilter, filterForm) {
	var (
		f    audit.QueryFilter
		form filterForm
	)

	if c := strings.TrimSpace(query.Get(r, "category")); eventTypesForCategory(c) != nil {
		form.Category = c
		f.Category = c
	}
	if et := strings.TrimSpace(query.Get(r, "event_type")); et != "" && slices.Contains(eventTypesForCategory(form.Category), et) {
		form.EventType = et
		f.EventType = et
	}
	if uid := strings.TrimSpace(query.Get(r, "user")); uid != "" {
		if id, err := uuid.Parse(uid); err == nil {
			form.UserID = id.String()
			f.UserID = id.String()
		}
	}
	if s := strings.TrimSpace(query.Get(r, "start_date")); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			form.StartDate = s
			f.StartTime = &t
		}
	}
	if s := strings.TrimSpace(query.Get(r, "end_date")); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			form.EndDate = s
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &end
		}
	}
	return f, form
}

// ServeList handles GET /admin/audit: newest events first, filterable by
// category, event type, user and date range.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit trail list")
	defer cancel()

	filter, form := parseFilter(r)
	win := paging.FromRequest(r)
	filter.Limit = win.Limit
	filter.Offset = win.Offset

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events", err, "Could not load the audit trail.", "/admin/dashboard")
		return
	}
	hasNext := paging.Trim(&events)

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events", err, "Could not load the audit trail.", "/admin/dashboard")
		return
	}

	items := h.toItems(ctx, events)
	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, "Audit trail", "/admin/dashboard"),
		filterForm: form,
		Items:      items,
		Total:      total,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(form.Category),
		Range:      paging.ComputeRange(win.Start, len(items), hasNext),
	})
}

// toItems converts events to rows, resolving account ids to names once per
// page. Lookup failures fall back to the raw id.
func (h *Handler) toItems(ctx context.Context, events []audit.Event) []listItem {
	names := make(map[string]string)
	name := func(id string) string {
		if id == "" {
			return ""
		}
		if n, ok := names[id]; ok {
			return n
		}
		n := id
		if uid, err := uuid.Parse(id); err == nil {
			if acct, err := h.Accounts.GetByID(ctx, uid); err == nil {
				n = acct.DisplayName()
			} else {
				h.Log.Debug("audit trail name lookup", zap.String("user_id", id), zap.Error(err))
			}
		}
		names[id] = n
		return n
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			Timestamp:     e.Timestamp.UTC(),
			Category:      e.Category,
			EventType:     e.EventType,
			Portal:        e.Portal,
			ActorName:     name(e.ActorID),
			TargetName:    name(e.UserID),
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}
	return items
}
