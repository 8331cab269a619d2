package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/riskwatch/internal/model"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		LoginRate:       rate.Limit(1.0 / 60.0),
		LoginBurst:      2,
		CleanupInterval: time.Minute,
	}
}

func TestRateLimiter_LoginMiddleware_PerIP(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.LoginMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Result().StatusCode
	}

	// バースト分は通過する
	for i := 0; i < 2; i++ {
		if status := send("10.0.0.1:1234"); status != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, status, http.StatusOK)
		}
	}

	// バーストを超えると429
	if status := send("10.0.0.1:1234"); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", status, http.StatusTooManyRequests)
	}

	// 別IPは影響を受けない
	if status := send("10.0.0.2:1234"); status != http.StatusOK {
		t.Errorf("other IP status = %d, want %d", status, http.StatusOK)
	}
}

func TestRateLimiter_LoginMiddleware_RetryAfterHeader(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.LoginMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var resp *http.Response
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		resp = w.Result()
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

func TestRateLimiter_GeneralMiddleware_PerAccount(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(accountID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), &model.TokenClaims{AccountID: accountID}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Result().StatusCode
	}

	for i := 0; i < 2; i++ {
		if status := send("acc-1"); status != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, status, http.StatusOK)
		}
	}
	if status := send("acc-1"); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", status, http.StatusTooManyRequests)
	}
	if status := send("acc-2"); status != http.StatusOK {
		t.Errorf("other account status = %d, want %d", status, http.StatusOK)
	}
}

func TestRateLimiter_GeneralMiddleware_RequiresClaims(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestRateLimiter_LimiterCounts(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.LoginMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:2", "10.0.0.1:3"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// 同一IPはポートが違っても1エントリにまとまる
	if got := rl.LoginLimiterCount(); got != 2 {
		t.Errorf("LoginLimiterCount() = %d, want 2", got)
	}
	if got := rl.GeneralLimiterCount(); got != 0 {
		t.Errorf("GeneralLimiterCount() = %d, want 0", got)
	}
}
