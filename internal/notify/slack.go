package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// WebhookPoster はメッセージをWebhookへJSONでPOSTする。
// 投稿ごとに配信IDを採番し、ログでの追跡を可能にする。
type WebhookPoster struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookPoster はWebhookPosterの新しいインスタンスを生成する。
// httpClientにはsecurity.SSRFGuardServiceが生成した安全なクライアントを渡すこと。
func NewWebhookPoster(httpClient *http.Client, logger *slog.Logger) *WebhookPoster {
	return &WebhookPoster{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Post はメッセージを指定WebhookへPOSTする。
// 2xx以外のステータスはエラーとして扱う。リトライは行わない。
func (p *WebhookPoster) Post(ctx context.Context, webhookURL string, msg *Message) error {
	deliveryID := uuid.NewString()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("メッセージのJSONエンコードに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Clubcast/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("Webhookへのリクエストに失敗しました",
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.logger.Error("Webhookがエラーステータスを返しました",
			slog.String("delivery_id", deliveryID),
			slog.Int("http_status", resp.StatusCode),
			slog.String("response", string(respBody)),
		)
		return fmt.Errorf("Webhookがステータス %d を返しました", resp.StatusCode)
	}

	p.logger.Info("Webhookへ投稿しました",
		slog.String("delivery_id", deliveryID),
	)

	return nil
}
