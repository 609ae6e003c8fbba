package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("4th attempt should be blocked")
	}
	if l.Remaining("k") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("k"))
	}
	if !l.Allow("other") {
		t.Error("other keys are independent")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || l.Allow("k") {
		t.Fatal("expected one allowed attempt then a block")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Error("expected new window after expiry")
	}
}

func TestLimiter_PrunesExpiredLazily(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")

	now = now.Add(2 * time.Minute)
	l.Allow("c")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.windows["a"]; ok {
		t.Error("expired window a should be pruned")
	}
	if len(l.windows) != 1 {
		t.Errorf("windows = %d, want 1", len(l.windows))
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after reset")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded", "203.0.113.5, 10.0.0.1", "", "10.0.0.1:1234", "203.0.113.5"},
		{"real ip", "", " 198.51.100.7 ", "10.0.0.1:1234", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"no port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login/patient", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerIdentifierCaseInsensitive(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	r := httptest.NewRequest("POST", "/login/patient", nil)

	if ok, _ := ll.Check(r, "Pat@Example.com"); !ok {
		t.Fatal("first attempt should pass")
	}
	if ok, _ := ll.Check(r, "pat@example.com "); !ok {
		t.Fatal("second attempt should pass")
	}
	ok, reason := ll.Check(r, "PAT@example.com")
	if ok || reason == "" {
		t.Fatal("third attempt on the same account should be blocked with a reason")
	}

	ll.ResetIdentifier("pat@example.com")
	if ok, _ := ll.Check(r, "pat@example.com"); !ok {
		t.Error("expected allow after ResetIdentifier")
	}
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := NewLoginLimiterWithConfig(1, time.Minute, 100, time.Minute)
	r := httptest.NewRequest("POST", "/login/admin", nil)

	if ok, _ := ll.Check(r, "a"); !ok {
		t.Fatal("first attempt should pass")
	}
	if ok, _ := ll.Check(r, "b"); ok {
		t.Error("second attempt from the same IP should be blocked")
	}
}
