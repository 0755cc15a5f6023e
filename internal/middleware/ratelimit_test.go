package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           2,
		CleanupInterval: time.Minute,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("リクエスト%d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	var lastCode int
	var lastRec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		lastRec = httptest.NewRecorder()
		handler.ServeHTTP(lastRec, req)
		lastCode = lastRec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("バースト超過のstatus = %d, want 429", lastCode)
	}
	if lastRec.Header().Get("Retry-After") == "" {
		t.Error("429レスポンスにRetry-Afterヘッダーがない")
	}
}

func TestRateLimiter_SeparateLimitPerClientIP(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	// 1つ目のIPでバーストを使い切る
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// 別のIPは制限されない
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("別IPのstatus = %d, want 200", rec.Code)
	}

	if rl.LimiterCount() != 2 {
		t.Errorf("LimiterCount = %d, want 2", rl.LimiterCount())
	}
}

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if rl.LimiterCount() != 1 {
		t.Fatalf("LimiterCount = %d, want 1", rl.LimiterCount())
	}

	// 最終アクセス時刻をTTL超過まで遡らせてからcleanupを直接実行
	rl.mu.Lock()
	for _, cl := range rl.limiters {
		cl.lastAccess = time.Now().Add(-3 * time.Minute)
	}
	rl.mu.Unlock()

	rl.cleanup()

	if rl.LimiterCount() != 0 {
		t.Errorf("cleanup後のLimiterCount = %d, want 0", rl.LimiterCount())
	}
}
