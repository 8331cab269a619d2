package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/metrics"
	"github.com/hitoshi/riskwatch/internal/middleware"
)

// Pinger はヘルスチェックに必要なデータベース接続インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Collector      metrics.MetricsCollector
	MetricsHandler http.Handler

	// ヘルスチェック
	DB Pinger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// CRM
	CustomerService      CustomerServiceInterface
	ProjectService       ProjectServiceInterface
	DomainService        DomainServiceInterface
	SLAService           SLAServiceInterface
	CommunicationService CommunicationServiceInterface
	DirectoryService     DirectoryServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// 認証ルート（/register /login /logout）とユーティリティルートは
// トークン認証の外に配置し、ログイン系にはIP単位のレート制限を適用する。
// /api以下はTokenAuth → RateLimit(General)で保護する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Collector)
	customerHandler := NewCustomerHandler(deps.CustomerService)
	projectHandler := NewProjectHandler(deps.ProjectService)
	domainHandler := NewDomainHandler(deps.DomainService)
	slaHandler := NewSLAHandler(deps.SLAService)
	commHandler := NewCommunicationHandler(deps.CommunicationService)
	dirHandler := NewDirectoryHandler(deps.DirectoryService)

	// --- 認証不要のルート ---

	r.Get("/", indexHandler)
	r.Get("/health", newHealthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 登録・ログインはブルートフォース対策のためIP単位のレート制限を適用
	loginLimited := deps.RateLimiter.LoginMiddleware()
	r.With(loginLimited).Post("/register", authHandler.Register)
	r.With(loginLimited).Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	// /auth/me はトークン認証のみ（一般レート制限の対象外）
	r.With(middleware.NewTokenAuthMiddleware(deps.TokenVerifier)).
		Get("/auth/me", authHandler.Me)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: TokenAuth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 顧客管理
		r.Route("/api/customers", func(r chi.Router) {
			r.Get("/", customerHandler.ListCustomers)
			r.Post("/", customerHandler.CreateCustomer)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", customerHandler.GetCustomer)
				r.Put("/", customerHandler.UpdateCustomer)
				r.Delete("/", customerHandler.DeleteCustomer)
			})
		})

		// プロジェクト管理
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
			})
		})

		// 業務ドメイン管理
		r.Route("/api/domains", func(r chi.Router) {
			r.Get("/", domainHandler.ListDomains)
			r.Post("/", domainHandler.CreateDomain)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", domainHandler.GetDomain)
				r.Put("/", domainHandler.UpdateDomain)
				r.Delete("/", domainHandler.DeleteDomain)
			})
		})

		// SLA管理
		r.Route("/api/slas", func(r chi.Router) {
			r.Get("/", slaHandler.ListSLAs)
			r.Post("/", slaHandler.CreateSLA)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", slaHandler.GetSLA)
				r.Put("/", slaHandler.UpdateSLA)
				r.Delete("/", slaHandler.DeleteSLA)
			})
		})

		// コミュニケーション管理
		r.Route("/api/communications", func(r chi.Router) {
			r.Get("/", commHandler.ListCommunications)
			r.Post("/email", commHandler.CreateEmail)
			r.Post("/transcript", commHandler.CreateTranscript)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", commHandler.GetCommunication)
				r.Put("/", commHandler.UpdateCommunication)
				r.Delete("/", commHandler.DeleteCommunication)
			})
		})

		// ディレクトリユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", dirHandler.ListUsers)
			r.Post("/", dirHandler.CreateUser)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dirHandler.GetUser)
				r.Put("/", dirHandler.UpdateUser)
				r.Delete("/", dirHandler.DeleteUser)
			})
		})
	})

	return r
}

// indexHandler はAPIのエンドポイント一覧を返す。
// GET /
func indexHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "riskwatch",
		"endpoints": []string{
			"POST /register",
			"POST /login",
			"POST /logout",
			"GET /auth/me",
			"GET /health",
			"GET /metrics",
			"GET|POST /api/customers",
			"GET|PUT|DELETE /api/customers/{id}",
			"GET|POST /api/projects",
			"GET|PUT|DELETE /api/projects/{id}",
			"GET|POST /api/domains",
			"GET|PUT|DELETE /api/domains/{id}",
			"GET|POST /api/slas",
			"GET|PUT|DELETE /api/slas/{id}",
			"GET /api/communications",
			"POST /api/communications/email",
			"POST /api/communications/transcript",
			"GET|PUT|DELETE /api/communications/{id}",
			"GET|POST /api/users",
			"GET|PUT|DELETE /api/users/{id}",
		},
	})
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
