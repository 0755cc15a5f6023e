// Package notify は新規アクティビティの通知機能を提供する。
// 通知可否の判定、メッセージ整形、Webhookへの投稿を含む。
package notify

// Message はWebhookへ投稿するペイロードを表す。
// flat形式ではTextのみ、rich形式ではAttachmentsを使用する。
// UsernameとIconURLは設定されている場合のみ付与される。
type Message struct {
	Username    string       `json:"username,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment はrich形式の添付メッセージを表す。
type Attachment struct {
	Fallback   string  `json:"fallback"`
	AuthorName string  `json:"author_name"`
	AuthorLink string  `json:"author_link"`
	AuthorIcon string  `json:"author_icon"`
	Title      string  `json:"title"`
	TitleLink  string  `json:"title_link"`
	Text       string  `json:"text"`
	Fields     []Field `json:"fields"`
	ImageURL   string  `json:"image_url,omitempty"`
	ThumbURL   string  `json:"thumb_url,omitempty"`
}

// Field は添付メッセージ内の項目を表す。
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
