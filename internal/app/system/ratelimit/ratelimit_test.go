package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/bulletin/internal/app/system/auth"
	"github.com/dalemusser/bulletin/internal/app/system/ratelimit"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	l := ratelimit.New(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth request should be denied")
	}
	if !l.Allow("other") {
		t.Error("keys must not share a bucket")
	}

	l.Reset("k")
	if !l.Allow("k") {
		t.Error("reset key should be allowed again")
	}
}

func TestStop_EndsCleanupGoroutine(t *testing.T) {
	l := ratelimit.New(5)
	l.Stop()
	l.Stop()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine still running after Stop")
	}
}

func TestWrites_LimitsMutationsOnly(t *testing.T) {
	l := ratelimit.New(1)
	defer l.Stop()

	h := l.Writes(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) int {
		req := httptest.NewRequest(method, "/announcements/", nil)
		req = auth.WithCaller(req, &auth.Caller{ID: "editor-1"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(http.MethodPost); code != http.StatusNoContent {
		t.Fatalf("first POST: got %d", code)
	}
	if code := do(http.MethodDelete); code != http.StatusTooManyRequests {
		t.Errorf("second write: got %d, want 429", code)
	}
	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet); code != http.StatusNoContent {
			t.Fatalf("GET %d: got %d", i, code)
		}
	}
}

func TestKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := ratelimit.Key(req); got != "ip:10.0.0.1" {
		t.Errorf("anonymous key: got %q", got)
	}

	req = auth.WithCaller(req, &auth.Caller{ID: "u1"})
	if got := ratelimit.Key(req); got != "caller:u1" {
		t.Errorf("caller key: got %q", got)
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
		{"forwarded first entry", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:80", "203.0.113.5"},
		{"real ip", "", " 198.51.100.7 ", "10.0.0.2:80", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
