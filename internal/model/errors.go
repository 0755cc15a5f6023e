package model

import "fmt"

// OpsError は運用上のエラー分類を表す。
// このシステムには呼び出し元への応答経路がないため、エラーは全てログ出力で完結する。
type OpsError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: upstream, notify, config
}

// Error はerrorインターフェースを実装する。
func (e *OpsError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeListActivities = "LIST_ACTIVITIES_FAILED"
	ErrCodeActivityDetail = "ACTIVITY_DETAIL_FAILED"
	ErrCodeWebhookPost    = "WEBHOOK_POST_FAILED"
	ErrCodeConfig         = "CONFIG_INVALID"
)

// NewListActivitiesError はクラブアクティビティ一覧の取得失敗エラーを生成する。
// 該当クラブをスキップするのみで、リトライは行わない。
func NewListActivitiesError(clubID int64, cause error) *OpsError {
	return &OpsError{
		Code:     ErrCodeListActivities,
		Message:  fmt.Sprintf("クラブ %d のアクティビティ一覧の取得に失敗しました: %v", clubID, cause),
		Category: "upstream",
	}
}

// NewActivityDetailError はアクティビティ詳細の取得失敗エラーを生成する。
// 該当アクティビティを破棄するのみで、リトライは行わない。
func NewActivityDetailError(activityID int64, cause error) *OpsError {
	return &OpsError{
		Code:     ErrCodeActivityDetail,
		Message:  fmt.Sprintf("アクティビティ %d の詳細取得に失敗しました: %v", activityID, cause),
		Category: "upstream",
	}
}

// NewWebhookPostError はWebhookへの投稿失敗エラーを生成する。
// アクティビティは既にseen扱いのため、再投稿は行われない。
func NewWebhookPostError(cause error) *OpsError {
	return &OpsError{
		Code:     ErrCodeWebhookPost,
		Message:  fmt.Sprintf("Webhookへの投稿に失敗しました: %v", cause),
		Category: "notify",
	}
}

// NewConfigError は設定不備のエラーを生成する。起動時に致命的エラーとして扱う。
func NewConfigError(reason string) *OpsError {
	return &OpsError{
		Code:     ErrCodeConfig,
		Message:  fmt.Sprintf("設定が不正です: %s", reason),
		Category: "config",
	}
}
