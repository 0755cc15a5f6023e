// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/clubcast/internal/config"
	"github.com/hitoshi/clubcast/internal/database"
	"github.com/hitoshi/clubcast/internal/dedup"
	"github.com/hitoshi/clubcast/internal/handler"
	"github.com/hitoshi/clubcast/internal/logger"
	"github.com/hitoshi/clubcast/internal/metrics"
	"github.com/hitoshi/clubcast/internal/middleware"
	"github.com/hitoshi/clubcast/internal/notify"
	"github.com/hitoshi/clubcast/internal/repository"
	"github.com/hitoshi/clubcast/internal/security"
	"github.com/hitoshi/clubcast/internal/strava"
	"github.com/hitoshi/clubcast/internal/worker/poll"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Int("club_count", len(cfg.Clubs)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runService(cfg)
	}
}

// runService はポーラーと管理用HTTPサーバーを起動する。
// DB接続を開き、全依存関係をワイヤリングし、ポーリングスケジューラと
// 管理用エンドポイントを並行して実行する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runService(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. セキュリティサービスの初期化と起動時のWebhook URL検査
	ssrfGuard := security.NewSSRFGuard()
	for _, club := range cfg.Clubs {
		if err := ssrfGuard.ValidateURL(club.Webhook); err != nil {
			return fmt.Errorf("webhook URL for club %d is not allowed: %w", club.ID, err)
		}
	}
	sanitizer := security.NewNameSanitizer()

	// 3. リポジトリと重複排除サービスの初期化
	seenRepo := repository.NewPostgresSeenActivityRepo(db)
	dedupSvc := dedup.NewService(seenRepo, slog.Default())

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. Stravaクライアントと通知パイプラインの初期化
	stravaClient := strava.NewClient(
		&http.Client{Timeout: cfg.FetchTimeout},
		slog.Default(),
		cfg.StravaToken,
	)

	formatter := notify.NewFormatter(cfg.MessageStyle, sanitizer, cfg.SlackUsername, cfg.SlackIconURL)
	poster := notify.NewWebhookPoster(ssrfGuard.NewSafeClient(cfg.FetchTimeout), slog.Default())
	notifier := notify.NewNotifier(stravaClient, poster, formatter, collector, slog.Default())

	// 6. ポーリングワーカーの初期化
	checker := poll.NewChecker(
		stravaClient, dedupSvc, notifier, collector, slog.Default(), cfg.ListPerPage,
	)
	scheduler := poll.NewScheduler(
		cfg.Clubs, checker, collector, slog.Default(), cfg.MaxConcurrentClubs,
	)

	// 7. 管理用ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:         slog.Default(),
		RateLimiter:    rateLimiter,
		HealthChecker:  db,
		SeenCounter:    seenRepo,
		StatusProvider: scheduler,
		Clubs:          cfg.Clubs,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// 8. HTTPサーバーの構築
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// ポーリングスケジューラをバックグラウンドで起動
	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Start(ctx, cfg.CheckInterval)
		close(schedulerDone)
	}()

	go func() {
		slog.Info("admin server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down...")

	cancel()
	<-schedulerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
