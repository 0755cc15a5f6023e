package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NameSanitizerService は表示文字列のサニタイズ機能のインターフェースを定義する。
// アクティビティ名やアスリート名といったユーザー制御の文字列を
// 通知メッセージへ埋め込む前に使用される。
// Webhookペイロードはプレーンテキストを期待するため、
// bluemondayのStrictPolicy（全タグ除去）を使用する。
type NameSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去し、プレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// nameSanitizer はNameSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type nameSanitizer struct {
	policy *bluemonday.Policy
}

// NewNameSanitizer はNameSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、全てのHTMLタグが除去される。
func NewNameSanitizer() *nameSanitizer {
	return &nameSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを除去してプレーンテキストを返す。
// bluemondayは残存テキストをHTMLエスケープするため、
// エスケープを復元してからプレーンテキストとして返す。
func (s *nameSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
