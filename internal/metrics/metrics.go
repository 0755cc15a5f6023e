// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ポーリングワーカーや通知処理から利用する。
type MetricsCollector interface {
	RecordCycle(duration time.Duration)
	RecordListSuccess(clubID int64)
	RecordListFailure(clubID int64)
	RecordNewActivities(count int)
	RecordSuppressed(reason string)
	RecordDetailFetchFailure()
	RecordPostSuccess()
	RecordPostFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	pollCycles      prometheus.Counter
	cycleDuration   prometheus.Histogram
	listSuccess     prometheus.Counter
	listFail        prometheus.Counter
	newActivities   prometheus.Counter
	suppressed      *prometheus.CounterVec
	detailFetchFail prometheus.Counter
	postSuccess     prometheus.Counter
	postFail        prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_poll_cycles_total",
			Help: "ポーリングサイクル実行の合計数",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clubcast_cycle_duration_seconds",
			Help:    "ポーリングサイクルの所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		listSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_list_success_total",
			Help: "クラブアクティビティ一覧取得成功の合計数",
		}),
		listFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_list_fail_total",
			Help: "クラブアクティビティ一覧取得失敗の合計数",
		}),
		newActivities: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_new_activities_total",
			Help: "新規検出されたアクティビティの合計数",
		}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubcast_suppressed_total",
			Help: "通知が抑制されたアクティビティの理由別合計数",
		}, []string{"reason"}),
		detailFetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_detail_fetch_fail_total",
			Help: "アクティビティ詳細取得失敗の合計数",
		}),
		postSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_posts_total",
			Help: "Webhook投稿成功の合計数",
		}),
		postFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubcast_post_fail_total",
			Help: "Webhook投稿失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.pollCycles,
		c.cycleDuration,
		c.listSuccess,
		c.listFail,
		c.newActivities,
		c.suppressed,
		c.detailFetchFail,
		c.postSuccess,
		c.postFail,
	)

	return c
}

// RecordCycle はポーリングサイクルの完了を記録する。
func (c *Collector) RecordCycle(duration time.Duration) {
	c.pollCycles.Inc()
	c.cycleDuration.Observe(duration.Seconds())
}

// RecordListSuccess は一覧取得成功を記録する。
func (c *Collector) RecordListSuccess(clubID int64) {
	c.listSuccess.Inc()
}

// RecordListFailure は一覧取得失敗を記録する。
func (c *Collector) RecordListFailure(clubID int64) {
	c.listFail.Inc()
}

// RecordNewActivities は新規検出アクティビティ数を記録する。
func (c *Collector) RecordNewActivities(count int) {
	c.newActivities.Add(float64(count))
}

// RecordSuppressed は通知抑制を理由別に記録する。
func (c *Collector) RecordSuppressed(reason string) {
	c.suppressed.WithLabelValues(reason).Inc()
}

// RecordDetailFetchFailure は詳細取得失敗を記録する。
func (c *Collector) RecordDetailFetchFailure() {
	c.detailFetchFail.Inc()
}

// RecordPostSuccess はWebhook投稿成功を記録する。
func (c *Collector) RecordPostSuccess() {
	c.postSuccess.Inc()
}

// RecordPostFailure はWebhook投稿失敗を記録する。
func (c *Collector) RecordPostFailure() {
	c.postFail.Inc()
}
