// Package poll はクラブアクティビティのバックグラウンドポーリング処理を提供する。
// スケジューラとクラブ単位のチェッカーを含む。
package poll

import (
	"context"
	"log/slog"

	"github.com/hitoshi/clubcast/internal/metrics"
	"github.com/hitoshi/clubcast/internal/model"
)

// ActivityLister はクラブアクティビティ一覧取得のインターフェース。
type ActivityLister interface {
	ListClubActivities(ctx context.Context, clubID int64, perPage int) ([]model.ActivitySummary, error)
}

// Deduper はseen-setによる重複排除のインターフェース。
type Deduper interface {
	// FilterNew はseen-setに存在しないアクティビティだけを入力順で返す。
	FilterNew(ctx context.Context, activities []model.ActivitySummary) ([]model.ActivitySummary, error)
	// MarkSeen はバッチ全体のIDをseen-setへ冪等に追記する。
	MarkSeen(ctx context.Context, activities []model.ActivitySummary) error
}

// ActivityNotifier は新規アクティビティ1件の通知インターフェース。
type ActivityNotifier interface {
	Notify(ctx context.Context, club model.Club, summary model.ActivitySummary) error
}

// Checker は1クラブ分のポーリング処理を実行する。
// 一覧取得、重複排除、seen-set追記、通知の流れを担う。
// seen-set追記は通知より先に行うため、各アクティビティの通知試行は生涯で最大1回となる。
type Checker struct {
	lister    ActivityLister
	dedup     Deduper
	notifier  ActivityNotifier
	collector metrics.MetricsCollector
	logger    *slog.Logger
	perPage   int
}

// NewChecker はCheckerの新しいインスタンスを生成する。
func NewChecker(
	lister ActivityLister,
	dedup Deduper,
	notifier ActivityNotifier,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	perPage int,
) *Checker {
	return &Checker{
		lister:    lister,
		dedup:     dedup,
		notifier:  notifier,
		collector: collector,
		logger:    logger,
		perPage:   perPage,
	}
}

// CheckClub は1クラブのアクティビティをチェックし、新規分を通知する。
// initialがtrueの場合（起動直後の初回サイクル）はseen-setへの追記のみ行い、
// 過去分の一斉通知を防ぐ。
// 一覧取得の失敗はこのクラブをスキップするのみで、リトライは行わない。
func (c *Checker) CheckClub(ctx context.Context, club model.Club, initial bool) error {
	activities, err := c.lister.ListClubActivities(ctx, club.ID, c.perPage)
	if err != nil {
		c.logger.Error("クラブアクティビティ一覧の取得に失敗しました",
			slog.Int64("club_id", club.ID),
			slog.String("error", err.Error()),
		)
		c.collector.RecordListFailure(club.ID)
		return model.NewListActivitiesError(club.ID, err)
	}
	c.collector.RecordListSuccess(club.ID)

	if len(activities) == 0 {
		c.logger.Info("クラブにアクティビティがありません",
			slog.Int64("club_id", club.ID),
		)
		return nil
	}

	newActivities, err := c.dedup.FilterNew(ctx, activities)
	if err != nil {
		c.logger.Error("seen-setの照合に失敗しました",
			slog.Int64("club_id", club.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("クラブアクティビティをチェックしました",
		slog.Int64("club_id", club.ID),
		slog.Int("checked", len(activities)),
		slog.Int("new", len(newActivities)),
	)

	if len(newActivities) == 0 {
		return nil
	}
	c.collector.RecordNewActivities(len(newActivities))

	// 通知の前にseen扱いとする。投稿が失敗しても同じアクティビティを
	// 再通知しないための順序。
	if err := c.dedup.MarkSeen(ctx, newActivities); err != nil {
		c.logger.Error("seen-setへの追記に失敗しました",
			slog.Int64("club_id", club.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	if initial {
		c.logger.Info("初回サイクルのためseen-setへの登録のみ行いました",
			slog.Int64("club_id", club.ID),
			slog.Int("seeded", len(newActivities)),
		)
		return nil
	}

	for _, activity := range newActivities {
		// 個別の通知失敗はNotifier側でログとメトリクスに記録済み。
		// 残りのアクティビティの通知は継続する。
		_ = c.notifier.Notify(ctx, club, activity)
	}

	return nil
}
