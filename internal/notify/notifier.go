package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/clubcast/internal/metrics"
	"github.com/hitoshi/clubcast/internal/model"
)

// ActivityDetailGetter はアクティビティ詳細取得のインターフェース。
// テスト時にモックに差し替え可能。
type ActivityDetailGetter interface {
	GetActivity(ctx context.Context, activityID int64) (*model.ActivityDetail, error)
}

// MessagePoster はWebhook投稿のインターフェース。
type MessagePoster interface {
	Post(ctx context.Context, webhookURL string, msg *Message) error
}

// Notifier は新規アクティビティ1件の通知処理を実行する。
// 通知可否の判定、詳細取得、整形、Webhook投稿の一連の流れを担う。
// 失敗はすべてログとメトリクスに記録され、リトライは行われない
// （アクティビティは既にseen扱いのため、失敗しても再通知されない）。
type Notifier struct {
	detailGetter ActivityDetailGetter
	poster       MessagePoster
	formatter    *Formatter
	collector    metrics.MetricsCollector
	logger       *slog.Logger
	now          func() time.Time // テスト用に差し替え可能
}

// NewNotifier はNotifierの新しいインスタンスを生成する。
func NewNotifier(
	detailGetter ActivityDetailGetter,
	poster MessagePoster,
	formatter *Formatter,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		detailGetter: detailGetter,
		poster:       poster,
		formatter:    formatter,
		collector:    collector,
		logger:       logger,
		now:          time.Now,
	}
}

// Notify は1件の新規アクティビティを通知する。
// 2つの抑制フィルタに該当した場合は投稿せず、理由を区別してログに残す。
func (n *Notifier) Notify(ctx context.Context, club model.Club, summary model.ActivitySummary) error {
	switch CheckEligibility(summary, n.now()) {
	case SuppressCommute:
		n.logger.Info("自転車通勤のため投稿しません",
			slog.Int64("activity_id", summary.ID),
			slog.Int64("club_id", club.ID),
		)
		n.collector.RecordSuppressed(string(SuppressCommute))
		return nil

	case SuppressStale:
		n.logger.Info("開始時刻が古いため投稿しません",
			slog.Int64("activity_id", summary.ID),
			slog.Int64("club_id", club.ID),
			slog.Time("start_date", summary.StartDate),
		)
		n.collector.RecordSuppressed(string(SuppressStale))
		return nil
	}

	detail, err := n.detailGetter.GetActivity(ctx, summary.ID)
	if err != nil {
		n.logger.Error("アクティビティ詳細の取得に失敗したため投稿をスキップします",
			slog.Int64("activity_id", summary.ID),
			slog.Int64("club_id", club.ID),
			slog.String("error", err.Error()),
		)
		n.collector.RecordDetailFetchFailure()
		return model.NewActivityDetailError(summary.ID, err)
	}

	msg := n.formatter.Format(summary.Athlete, detail)

	if err := n.poster.Post(ctx, club.Webhook, msg); err != nil {
		// 投稿失敗してもアクティビティは既にseen扱いのため再試行しない
		n.logger.Error("Webhookへの投稿に失敗しました",
			slog.Int64("activity_id", summary.ID),
			slog.Int64("club_id", club.ID),
			slog.String("error", err.Error()),
		)
		n.collector.RecordPostFailure()
		return model.NewWebhookPostError(err)
	}

	n.collector.RecordPostSuccess()
	n.logger.Info("アクティビティを通知しました",
		slog.Int64("activity_id", summary.ID),
		slog.Int64("club_id", club.ID),
	)

	return nil
}
