// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/riskwatch/internal/model"
)

const tokenCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに認証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("token_claims")

// TokenVerifier はセッショントークンの検証に必要なインターフェース。
// auth.TokenManagerの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*model.TokenClaims, error)
}

// NewTokenAuthMiddleware はリクエストからセッショントークンを読み取り、
// 署名と有効期限を検証するミドルウェアを返す。
// トークンはHTTP Only Cookieを優先し、なければAuthorization: Bearerヘッダーを参照する。
// トークン未提示は401、検証失敗は403を返す。
// 検証済みクレームはリクエストコンテキストに注入される。
func NewTokenAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				WriteErrorResponse(w, http.StatusForbidden, model.NewTokenInvalidError())
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken はCookieまたはAuthorizationヘッダーからトークン文字列を取り出す。
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// ClaimsFromContext はリクエストコンテキストから認証済みクレームを取得する。
// トークン認証ミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*model.TokenClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*model.TokenClaims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("token claims not found in context")
	}
	return claims, nil
}

// ContextWithClaims はコンテキストに認証済みクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *model.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
