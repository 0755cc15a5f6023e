package model

// Club は監視対象のクラブを表す。
// 起動時に設定から1回読み込まれ、以後イミュータブルとして扱う。
type Club struct {
	// ID はStrava APIに対して使用するクラブ識別子。
	ID int64 `json:"id"`
	// Webhook は通知の投稿先となるメッセージングWebhook URL。
	Webhook string `json:"webhook"`
}

// MessageStyle は通知メッセージの出力形式を表す。
type MessageStyle string

const (
	// MessageStyleRich はattachments配列を使ったリッチ形式。
	MessageStyleRich MessageStyle = "rich"
	// MessageStyleFlat は1文のテキストのみのフラット形式。
	MessageStyleFlat MessageStyle = "flat"
)

// Valid はMessageStyleが定義済みの値かを返す。
func (s MessageStyle) Valid() bool {
	return s == MessageStyleRich || s == MessageStyleFlat
}
