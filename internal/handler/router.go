package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/clubcast/internal/middleware"
	"github.com/hitoshi/clubcast/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter

	HealthChecker  HealthChecker
	SeenCounter    SeenCounter
	StatusProvider StatusProvider
	Clubs          []model.Club

	// Prometheusのメトリクスハンドラ（promhttp.HandlerFor）
	MetricsHandler http.Handler
}

// NewRouter は管理用エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → LoggingMiddleware → RateLimitMiddleware
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(deps.RateLimiter.Middleware())

	statusHandler := NewStatusHandler(
		deps.HealthChecker,
		deps.SeenCounter,
		deps.StatusProvider,
		deps.Clubs,
		deps.Logger,
	)

	r.Get("/health", statusHandler.Health)
	r.Get("/api/status", statusHandler.Status)
	r.Handle("/metrics", deps.MetricsHandler)

	return r
}
