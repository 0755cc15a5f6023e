// Package repository はデータ永続化のインターフェースを定義する。
package repository

import "context"

// SeenActivityRepository は処理済みアクティビティIDの永続化インターフェース。
// seen-setは追記専用であり、更新・削除の操作は存在しない。
type SeenActivityRepository interface {
	// FilterUnseen は指定IDのうちseen-setに存在しないものだけを入力順で返す。
	// seen-setは変更しない純粋なフィルタ。
	FilterUnseen(ctx context.Context, ids []int64) ([]int64, error)

	// MarkSeen は指定IDをseen-setへ追記する。
	// 既存IDとの衝突は無視される冪等な操作（first write wins）。
	MarkSeen(ctx context.Context, ids []int64) error

	// Count はseen-setの総レコード数を返す。
	Count(ctx context.Context) (int64, error)
}
