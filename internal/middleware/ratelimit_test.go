package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(rate, burst int, clock *fakeClock) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Rate:   rate,
		Burst:  burst,
		Window: time.Minute,
		Now:    clock.Now,
	})
}

// ============================================================================
// Allow Tests
// ============================================================================

func TestNewRateLimiter_Defaults(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})

	if rl.Limit() != 100 {
		t.Errorf("expected default rate 100, got %d", rl.Limit())
	}
	if rl.capacity != 120 {
		t.Errorf("expected capacity rate+burst = 120, got %v", rl.capacity)
	}
	if !rl.exempt["/health"] {
		t.Error("/health should be exempt by default")
	}
}

func TestAllow_CapacityIsRatePlusBurst(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(5, 3, newFakeClock())

	for i := 0; i < 8; i++ {
		allowed, remaining, _ := rl.Allow("10.0.0.1")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 7-i {
			t.Errorf("request %d: remaining = %d, want %d", i+1, remaining, 7-i)
		}
	}

	allowed, remaining, wait := rl.Allow("10.0.0.1")
	if allowed || remaining != 0 {
		t.Errorf("9th request: allowed=%v remaining=%d", allowed, remaining)
	}
	// 5 per minute is one token every 12s
	if wait != 12*time.Second {
		t.Errorf("wait = %v, want 12s", wait)
	}
}

func TestAllow_RefillsContinuously(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(6, -1, clock) // no burst; one token every 10s

	for i := 0; i < 6; i++ {
		rl.Allow("10.0.0.1")
	}
	if allowed, _, _ := rl.Allow("10.0.0.1"); allowed {
		t.Fatal("bucket should be empty")
	}

	clock.Advance(5 * time.Second)
	if allowed, _, wait := rl.Allow("10.0.0.1"); allowed || wait != 5*time.Second {
		t.Errorf("half a token: allowed=%v wait=%v", allowed, wait)
	}

	clock.Advance(5 * time.Second)
	if allowed, remaining, _ := rl.Allow("10.0.0.1"); !allowed || remaining != 0 {
		t.Errorf("one token refilled: allowed=%v remaining=%d", allowed, remaining)
	}
}

func TestAllow_RefillCappedAtCapacity(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(10, 5, clock)

	rl.Allow("10.0.0.1")
	clock.Advance(time.Hour)

	_, remaining, _ := rl.Allow("10.0.0.1")
	if remaining != 14 {
		t.Errorf("remaining = %d, want capacity-1 = 14", remaining)
	}
}

func TestAllow_SeparateBucketsPerKey(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(1, -1, newFakeClock())

	if allowed, _, _ := rl.Allow("10.0.0.1"); !allowed {
		t.Fatal("first key should be allowed")
	}
	if allowed, _, _ := rl.Allow("10.0.0.1"); allowed {
		t.Fatal("first key should be exhausted")
	}
	if allowed, _, _ := rl.Allow("10.0.0.2"); !allowed {
		t.Error("second key should have its own bucket")
	}
}

func TestAllow_SweepsIdleBuckets(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(10, 5, clock)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	if rl.size() != 2 {
		t.Fatalf("size = %d, want 2", rl.size())
	}

	clock.Advance(time.Minute)
	rl.Allow("10.0.0.2")
	if rl.size() != 2 {
		t.Errorf("no sweep before the idle TTL, size = %d", rl.size())
	}

	clock.Advance(90 * time.Second)
	rl.Allow("10.0.0.3")
	// 10.0.0.1 idle 2.5m is dropped; 10.0.0.2 idle 1.5m survives
	if rl.size() != 2 {
		t.Errorf("size after sweep = %d, want 2", rl.size())
	}
	rl.mu.Lock()
	_, stale := rl.buckets["10.0.0.1"]
	rl.mu.Unlock()
	if stale {
		t.Error("idle bucket should have been dropped")
	}
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(100, 50, newFakeClock())

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if allowed, _, _ := rl.Allow("shared"); allowed {
					mu.Lock()
					granted++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if granted != 150 {
		t.Errorf("granted = %d, want exactly capacity 150", granted)
	}
}

// ============================================================================
// RateLimit Middleware Tests
// ============================================================================

func serveFrom(mw Middleware, h http.Handler, path, ip string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":40000"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	mw(h).ServeHTTP(rr, req)
	return rr
}

func TestRateLimitMiddleware_SetsHeaders(t *testing.T) {
	t.Parallel()
	mw := RateLimit(newTestLimiter(100, 20, newFakeClock()))
	handler := &captureHandler{}

	rr := serveFrom(mw, handler, "/v1/strategies", "192.168.1.1", nil)

	if rr.Code != http.StatusOK || !handler.called {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("X-RateLimit-Limit = %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "119" {
		t.Errorf("X-RateLimit-Remaining = %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitMiddleware_Denied(t *testing.T) {
	t.Parallel()
	mw := RateLimit(newTestLimiter(2, 1, newFakeClock()))
	handler := &captureHandler{}

	for i := 0; i < 3; i++ {
		serveFrom(mw, handler, "/v1/sessions", "192.168.1.1", nil)
	}

	handler.called = false
	rr := serveFrom(mw, handler, "/v1/sessions", "192.168.1.1", nil)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
	if got, _ := strconv.Atoi(rr.Header().Get("Retry-After")); got != 30 {
		t.Errorf("Retry-After = %q, want 30", rr.Header().Get("Retry-After"))
	}

	if rr := serveFrom(mw, handler, "/v1/sessions", "192.168.1.2", nil); rr.Code != http.StatusOK {
		t.Errorf("different IP should have quota, got %d", rr.Code)
	}
}

func TestRateLimitMiddleware_RiderHeaderDoesNotSplitQuota(t *testing.T) {
	t.Parallel()
	mw := RateLimit(newTestLimiter(2, 1, newFakeClock()))
	handler := &captureHandler{}

	for i := 0; i < 3; i++ {
		serveFrom(mw, handler, "/v1/sessions", "192.168.1.1", map[string]string{RiderIDHeader: "rider-a"})
	}

	rr := serveFrom(mw, handler, "/v1/sessions", "192.168.1.1", map[string]string{RiderIDHeader: "rider-b"})
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for same IP, got %d", rr.Code)
	}
}

func TestRateLimitMiddleware_ForwardedForKeysClient(t *testing.T) {
	t.Parallel()
	mw := RateLimit(newTestLimiter(1, -1, newFakeClock()))
	handler := &captureHandler{}

	proxy := "10.0.0.254"
	if rr := serveFrom(mw, handler, "/v1/strategies", proxy, map[string]string{"X-Forwarded-For": "203.0.113.1"}); rr.Code != http.StatusOK {
		t.Fatalf("first client got %d", rr.Code)
	}
	if rr := serveFrom(mw, handler, "/v1/strategies", proxy, map[string]string{"X-Forwarded-For": "203.0.113.2"}); rr.Code != http.StatusOK {
		t.Errorf("second client behind the same proxy got %d", rr.Code)
	}
}

func TestRateLimitMiddleware_ExemptPaths(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: -1, Window: time.Minute, Exempt: []string{"/health", "/v1/emergency-techniques"}})
	mw := RateLimit(rl)
	handler := &captureHandler{}

	for _, path := range []string{"/health", "/v1/emergency-techniques"} {
		for i := 0; i < 5; i++ {
			rr := serveFrom(mw, handler, path, "10.0.0.1", nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("%s request %d got %d", path, i, rr.Code)
			}
			if rr.Header().Get("X-RateLimit-Limit") != "" {
				t.Errorf("%s should not carry rate limit headers", path)
			}
		}
	}
}
