package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/clubcast/internal/metrics"
	"github.com/hitoshi/clubcast/internal/model"
)

// ClubChecker はクラブ単位のポーリング実行インターフェース。
type ClubChecker interface {
	CheckClub(ctx context.Context, club model.Club, initial bool) error
}

// CycleInfo は直近のポーリングサイクルの実行情報。
// ステータスAPIから参照される。
type CycleInfo struct {
	RanAt        time.Time     `json:"ran_at"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
	ClubsChecked int           `json:"clubs_checked"`
}

// Scheduler はクラブポーリングのスケジューリングと並列制御を行う。
// 設定された間隔のティッカーで全クラブをチェックし、
// semaphoreパターンで最大並列数を制御する。
type Scheduler struct {
	clubs          []model.Club
	checker        ClubChecker
	collector      metrics.MetricsCollector
	logger         *slog.Logger
	maxConcurrency int

	mu        sync.Mutex
	lastCycle CycleInfo
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値5を使用する。
func NewScheduler(
	clubs []model.Club,
	checker ClubChecker,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	maxConcurrency int,
) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &Scheduler{
		clubs:          clubs,
		checker:        checker,
		collector:      collector,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// 起動直後の1回は初回サイクルとして実行され、既存アクティビティの
// seen-set登録のみ行う（過去分の一斉通知を防ぐ）。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("ポーリングスケジューラを開始しました",
		slog.Duration("interval", interval),
		slog.Int("club_count", len(s.clubs)),
		slog.Int("max_concurrency", s.maxConcurrency),
	)

	// 起動直後に初回サイクルを実行
	s.RunOnce(ctx, true)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ポーリングスケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx, false)
		}
	}
}

// RunOnce は全クラブを1回チェックする。
// semaphoreパターンで最大並列数を制御する。
// 個別クラブのエラーは他クラブのチェックを妨げない。
func (s *Scheduler) RunOnce(ctx context.Context, initial bool) {
	start := time.Now()

	s.logger.Info("ポーリングサイクルを開始します",
		slog.Int("club_count", len(s.clubs)),
		slog.Bool("initial", initial),
	)

	// semaphoreパターンで並列数を制御
	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for _, club := range s.clubs {
		wg.Add(1)
		sem <- struct{}{} // semaphore取得（ブロック）

		go func(c model.Club) {
			defer wg.Done()
			defer func() { <-sem }() // semaphore解放

			// エラーはChecker側でログとメトリクスに記録済み
			_ = s.checker.CheckClub(ctx, c, initial)
		}(club)
	}

	wg.Wait()

	duration := time.Since(start)
	s.collector.RecordCycle(duration)

	s.mu.Lock()
	s.lastCycle = CycleInfo{
		RanAt:        start,
		Duration:     duration,
		DurationMS:   duration.Milliseconds(),
		ClubsChecked: len(s.clubs),
	}
	s.mu.Unlock()

	s.logger.Info("ポーリングサイクルが完了しました",
		slog.Int("club_count", len(s.clubs)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}

// LastCycle は直近のサイクル実行情報を返す。
// 一度もサイクルが実行されていない場合はゼロ値を返す。
func (s *Scheduler) LastCycle() CycleInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCycle
}
