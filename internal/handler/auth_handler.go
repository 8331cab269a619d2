package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/riskwatch/internal/auth"
	"github.com/hitoshi/riskwatch/internal/metrics"
	"github.com/hitoshi/riskwatch/internal/middleware"
	"github.com/hitoshi/riskwatch/internal/model"
)

const tokenCookieName = "token"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, input auth.RegisterInput) (*model.Account, string, error)
	Login(ctx context.Context, input auth.LoginInput) (*model.Account, string, error)
	CurrentAccount(ctx context.Context, claims *model.TokenClaims) (*model.Account, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
	TokenTTL     time.Duration // トークンCookieの有効期間
}

// AuthHandler は登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	config    AuthHandlerConfig
	collector metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。collectorはnil可（テスト用）。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:   service,
		config:    config,
		collector: collector,
	}
}

// registerRequest は登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// loginRequest はログインリクエストのボディ。
// nameにはusernameまたはemailのどちらでも指定できる。
type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// accountResponse はアカウント情報のAPIレスポンス。
// パスワードハッシュは決して含めない。
type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// authResponse は登録・ログイン成功時のレスポンス。
type authResponse struct {
	Message string          `json:"message"`
	User    accountResponse `json:"user"`
}

// Register はアカウント登録を処理する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	account, token, err := h.service.Register(r.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Fullname: req.Fullname,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.recordAuthFailure("register", err)
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordAuthSuccess("register")
	}

	h.setTokenCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User Register Successfully!",
		User:    toAccountResponse(account),
	})
}

// Login はログインを処理する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	account, token, err := h.service.Login(r.Context(), auth.LoginInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.recordAuthFailure("login", err)
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordAuthSuccess("login")
	}

	h.setTokenCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{
		Message: "User Logged In Successfully!",
		User:    toAccountResponse(account),
	})
}

// Logout はトークンCookieをクリアする。
// トークンはステートレスなためサーバー側の破棄は不要。常に200を返す。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User Logged Out!",
	})
}

// Me は現在のログインアカウント情報を返す。
// トークン認証ミドルウェアの後に配置する。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	account, err := h.service.CurrentAccount(r.Context(), claims)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// setTokenCookie はHTTP OnlyのトークンCookieを設定する。
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   int(h.config.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// recordAuthFailure は認証失敗メトリクスをエラーコード付きで記録する。
func (h *AuthHandler) recordAuthFailure(kind string, err error) {
	if h.collector == nil {
		return
	}
	if apiErr, ok := err.(*model.APIError); ok {
		h.collector.RecordAuthFailure(kind, apiErr.Code)
		return
	}
	h.collector.RecordAuthFailure(kind, "INTERNAL_ERROR")
}

// toAccountResponse はmodel.AccountからAPIレスポンスに変換する。
func toAccountResponse(account *model.Account) accountResponse {
	return accountResponse{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Fullname: account.Fullname,
		Role:     account.Role,
	}
}
