// Package dedup はアクティビティの重複排除機能を提供する。
// 永続化されたseen-setに対する純粋フィルタと冪等な追記を分離して提供する。
package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/clubcast/internal/model"
	"github.com/hitoshi/clubcast/internal/repository"
)

// Service はseen-setを用いた重複排除サービス。
// seen-setはプロセス全体で共有される唯一の状態であり、このサービスだけが更新する。
type Service struct {
	seenRepo repository.SeenActivityRepository
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(seenRepo repository.SeenActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		seenRepo: seenRepo,
		logger:   logger,
	}
}

// FilterNew はseen-setに存在しないアクティビティだけを入力順で返す。
// seen-setは変更しない。
func (s *Service) FilterNew(ctx context.Context, activities []model.ActivitySummary) ([]model.ActivitySummary, error) {
	if len(activities) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	unseenIDs, err := s.seenRepo.FilterUnseen(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("seen-setの照合に失敗しました: %w", err)
	}

	unseen := make(map[int64]bool, len(unseenIDs))
	for _, id := range unseenIDs {
		unseen[id] = true
	}

	newActivities := make([]model.ActivitySummary, 0, len(unseenIDs))
	for _, a := range activities {
		if unseen[a.ID] {
			newActivities = append(newActivities, a)
			// 同一IDが1レスポンス内に複数回現れても1件として扱う
			delete(unseen, a.ID)
		}
	}

	return newActivities, nil
}

// MarkSeen はバッチ全体のIDをseen-setへ追記する。
// 通知の成否に関わらず呼び出されるため、各IDの通知試行は生涯で最大1回となる。
// 追記は冪等であり、同一IDの再追記は無視される。
func (s *Service) MarkSeen(ctx context.Context, activities []model.ActivitySummary) error {
	if len(activities) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	if err := s.seenRepo.MarkSeen(ctx, ids); err != nil {
		return fmt.Errorf("seen-setへの追記に失敗しました: %w", err)
	}

	s.logger.Info("seen-setへ追記しました",
		slog.Int("count", len(ids)),
	)

	return nil
}
