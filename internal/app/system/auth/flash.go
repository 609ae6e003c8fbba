// internal/app/system/auth/flash.go
package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Flash kinds map to alert styles in the layout.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

var flashKinds = []string{FlashSuccess, FlashWarning, FlashError}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func flashKey(kind string) string { return "_flash_" + kind }

// AddFlash queues a message for the next page view. Save errors are logged.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, _ := sm.GetSession(r)
	sess.AddFlash(msg, flashKey(kind))
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save flash failed", zap.Error(err))
	}
}

// PopFlashes returns and clears every queued message, successes first.
func (sm *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}

	var out []Flash
	for _, kind := range flashKinds {
		for _, v := range sess.Flashes(flashKey(kind)) {
			if s, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: s})
			}
		}
	}
	if len(out) > 0 {
		_ = sess.Save(r, w)
	}
	return out
}
