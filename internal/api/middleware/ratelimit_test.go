package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestIPRateLimiter_BlocksAfterBurst(t *testing.T) {
	l := NewIPRateLimiter(60, zerolog.Nop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	e := echo.New()
	h := l.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	for i := 0; i < defaultBurst; i++ {
		if code := call("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := call("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := call("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other IPs must not be limited, got %d", code)
	}

	// One token refills per second at 60/min.
	now = now.Add(time.Second)
	if code := call("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected refill, got %d", code)
	}
}

func TestIPRateLimiter_EvictsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(60, zerolog.Nop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(visitorTTL + time.Second)
	l.allow("10.0.0.2")
	l.evict()

	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Fatalf("idle visitor not evicted")
	}
	if _, ok := l.visitors["10.0.0.2"]; !ok {
		t.Fatalf("active visitor evicted")
	}
}
