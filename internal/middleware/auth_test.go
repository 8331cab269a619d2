package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/riskwatch/internal/model"
)

// mockTokenVerifier はTokenVerifierのモック実装。
type mockTokenVerifier struct {
	verifyFn func(tokenString string) (*model.TokenClaims, error)
}

func (m *mockTokenVerifier) Verify(tokenString string) (*model.TokenClaims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(tokenString)
	}
	return nil, errors.New("not implemented")
}

func okVerifier(t *testing.T, wantToken string) *mockTokenVerifier {
	return &mockTokenVerifier{
		verifyFn: func(tokenString string) (*model.TokenClaims, error) {
			if tokenString != wantToken {
				t.Errorf("token = %q, want %q", tokenString, wantToken)
			}
			return &model.TokenClaims{AccountID: "acc-1", Username: "hitoshi"}, nil
		},
	}
}

func claimsCapturingHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			t.Errorf("ClaimsFromContext() error = %v", err)
			return
		}
		if claims.AccountID != "acc-1" {
			t.Errorf("AccountID = %q, want %q", claims.AccountID, "acc-1")
		}
	})
}

func TestTokenAuthMiddleware_CookieToken(t *testing.T) {
	called := false
	mw := NewTokenAuthMiddleware(okVerifier(t, "cookie-token"))
	handler := mw(claimsCapturingHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("expected the next handler to be called")
	}
}

func TestTokenAuthMiddleware_BearerFallback(t *testing.T) {
	called := false
	mw := NewTokenAuthMiddleware(okVerifier(t, "bearer-token"))
	handler := mw(claimsCapturingHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer bearer-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("expected the next handler to be called")
	}
}

func TestTokenAuthMiddleware_CookieTakesPrecedence(t *testing.T) {
	called := false
	mw := NewTokenAuthMiddleware(okVerifier(t, "cookie-token"))
	handler := mw(claimsCapturingHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer bearer-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("expected the next handler to be called")
	}
}

func TestTokenAuthMiddleware_MissingToken(t *testing.T) {
	mw := NewTokenAuthMiddleware(&mockTokenVerifier{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Access Denied!" {
		t.Errorf("error = %q, want %q", body.Error, "Access Denied!")
	}
	if body.Code != model.ErrCodeTokenMissing {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeTokenMissing)
	}
}

func TestTokenAuthMiddleware_InvalidToken(t *testing.T) {
	mw := NewTokenAuthMiddleware(&mockTokenVerifier{
		verifyFn: func(tokenString string) (*model.TokenClaims, error) {
			return nil, errors.New("signature is invalid")
		},
	})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tampered"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Invalid Token!" {
		t.Errorf("error = %q, want %q", body.Error, "Invalid Token!")
	}
}

func TestClaimsFromContext_NotSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ClaimsFromContext(req.Context()); err == nil {
		t.Error("expected an error for a context without claims")
	}
}
