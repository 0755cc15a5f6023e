// Package handler は管理用HTTPエンドポイントを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/clubcast/internal/model"
	"github.com/hitoshi/clubcast/internal/worker/poll"
)

// HealthChecker はヘルスチェック対象（データベース接続）のインターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// SeenCounter はseen-setの件数取得インターフェース。
type SeenCounter interface {
	Count(ctx context.Context) (int64, error)
}

// StatusProvider は直近のポーリングサイクル情報の取得インターフェース。
type StatusProvider interface {
	LastCycle() poll.CycleInfo
}

// StatusHandler はヘルスチェックとステータスAPIを処理する。
type StatusHandler struct {
	health HealthChecker
	seen   SeenCounter
	status StatusProvider
	clubs  []model.Club
	logger *slog.Logger
}

// NewStatusHandler はStatusHandlerの新しいインスタンスを生成する。
func NewStatusHandler(
	health HealthChecker,
	seen SeenCounter,
	status StatusProvider,
	clubs []model.Club,
	logger *slog.Logger,
) *StatusHandler {
	return &StatusHandler{
		health: health,
		seen:   seen,
		status: status,
		clubs:  clubs,
		logger: logger,
	}
}

// Health はGET /healthを処理する。
// データベース接続を確認し、正常なら200、異常なら503を返す。
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.PingContext(r.Context()); err != nil {
		h.logger.Error("ヘルスチェックに失敗しました",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// statusResponse はGET /api/statusのレスポンス。
// Webhook URLは秘匿情報のため含めない。
type statusResponse struct {
	ClubIDs   []int64         `json:"club_ids"`
	SeenCount int64           `json:"seen_count"`
	LastCycle *poll.CycleInfo `json:"last_cycle,omitempty"`
}

// Status はGET /api/statusを処理する。
// 監視対象クラブ、seen-setの件数、直近サイクルの実行情報を返す。
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	count, err := h.seen.Count(r.Context())
	if err != nil {
		h.logger.Error("seen-set件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
		return
	}

	clubIDs := make([]int64, 0, len(h.clubs))
	for _, c := range h.clubs {
		clubIDs = append(clubIDs, c.ID)
	}

	resp := statusResponse{
		ClubIDs:   clubIDs,
		SeenCount: count,
	}

	if cycle := h.status.LastCycle(); !cycle.RanAt.IsZero() {
		resp.LastCycle = &cycle
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
