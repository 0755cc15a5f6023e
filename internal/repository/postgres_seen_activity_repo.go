package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresSeenActivityRepo はPostgreSQLを使用した処理済みアクティビティリポジトリ。
type PostgresSeenActivityRepo struct {
	db *sql.DB
}

// NewPostgresSeenActivityRepo はPostgresSeenActivityRepoを生成する。
func NewPostgresSeenActivityRepo(db *sql.DB) *PostgresSeenActivityRepo {
	return &PostgresSeenActivityRepo{db: db}
}

// FilterUnseen は指定IDのうちseen_activitiesに存在しないものだけを入力順で返す。
func (r *PostgresSeenActivityRepo) FilterUnseen(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT activity_id FROM seen_activities WHERE activity_id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("処理済みアクティビティの検索に失敗しました: %w", err)
	}
	defer rows.Close()

	seen := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("処理済みアクティビティIDの読み取りに失敗しました: %w", err)
		}
		seen[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("処理済みアクティビティの走査に失敗しました: %w", err)
	}

	unseen := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			unseen = append(unseen, id)
		}
	}

	return unseen, nil
}

// MarkSeen は指定IDをseen_activitiesへ追記する。
// ON CONFLICT DO NOTHINGにより既存IDとの衝突は無視される（冪等）。
func (r *PostgresSeenActivityRepo) MarkSeen(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO seen_activities (activity_id)
		 SELECT unnest($1::bigint[])
		 ON CONFLICT (activity_id) DO NOTHING`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("処理済みアクティビティの追記に失敗しました: %w", err)
	}

	return nil
}

// Count はseen_activitiesの総レコード数を返す。
func (r *PostgresSeenActivityRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_activities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("処理済みアクティビティ数の取得に失敗しました: %w", err)
	}
	return count, nil
}
