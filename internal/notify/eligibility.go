package notify

import (
	"time"

	"github.com/hitoshi/clubcast/internal/model"
)

// SuppressReason は通知が抑制された理由を表す。
type SuppressReason string

const (
	// SuppressNone は抑制なし（通知対象）を示す。
	SuppressNone SuppressReason = ""
	// SuppressCommute は自転車通勤のため抑制されたことを示す。
	SuppressCommute SuppressReason = "commute"
	// SuppressStale は開始時刻が古すぎるため抑制されたことを示す。
	SuppressStale SuppressReason = "stale"
)

// staleWindow は通知対象となる開始時刻の上限経過時間。固定で7日間。
const staleWindow = 7 * 24 * time.Hour

// CheckEligibility はアクティビティの通知可否を判定する。
// 2つのフィルタを独立に評価し、最初に該当した抑制理由を返す。
//   - 通勤フィルタ: 自転車種別かつcommuteフラグが立っている
//   - 鮮度フィルタ: 開始時刻が現在時刻の7日以上前
//
// 上流APIは自転車を"Ride"で返すが、過去の挙動との互換のため"Bike"も同様に扱う。
func CheckEligibility(summary model.ActivitySummary, now time.Time) SuppressReason {
	if (summary.Type == "Ride" || summary.Type == "Bike") && summary.Commute {
		return SuppressCommute
	}

	if !summary.StartDate.After(now.Add(-staleWindow)) {
		return SuppressStale
	}

	return SuppressNone
}
