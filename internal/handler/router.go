package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vetalert/vetalert/internal/metrics"
	"github.com/vetalert/vetalert/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	ReportService ReportServiceInterface
	AuthService   AuthServiceInterface
	AuthConfig    AuthHandlerConfig

	// 可観測性
	Metrics           metrics.MetricsCollector
	MetricsGatherer   prometheus.Gatherer
	HealthCheckTarget Pinger
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS → Session
//
// セッションミドルウェアは全ルートに適用するが認証は強制しない。
// レスキュアー専用ルートのみRequireRescuerで明示的にゲートする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

	pageHandler := NewPageHandler()
	reportHandler := NewReportHandler(deps.ReportService, deps.Metrics)
	authHandler := NewAuthHandler(deps.AuthService, pageHandler, deps.Metrics, deps.AuthConfig)

	// --- ページルート ---

	r.Get("/", pageHandler.Home)
	r.Get("/report", pageHandler.ReportPage)
	r.Get("/rescue", pageHandler.RescuePage)
	r.Get("/rescue-login", pageHandler.RescueLoginPage)
	r.Get("/fund", pageHandler.FundPage)
	r.Get("/about", pageHandler.AboutPage)

	// 静的アセット
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	// --- フォームルート ---
	// ログイン試行にはレート制限をかけない

	r.Post("/login", authHandler.CitizenLogin)
	r.Post("/rescue-login", authHandler.RescuerLogin)
	r.Get("/logout", authHandler.Logout)

	// --- JSON APIルート ---

	// 通報投稿は匿名で可能。投稿専用レート制限をIP単位で適用する
	r.With(deps.RateLimiter.SubmitMiddleware()).Post("/api/report", reportHandler.CreateReport)

	// レスキュアー専用
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.APIMiddleware())
		r.Use(middleware.RequireRescuer)

		r.Get("/api/reports", reportHandler.ListReports)
		r.Post("/api/report/{id}/update", reportHandler.UpdateReport)
	})

	// --- 運用ルート ---

	r.Get("/health", NewHealthHandler(deps.HealthCheckTarget))
	r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))

	return r
}
