package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestWebhookPoster_ImplementsInterface(t *testing.T) {
	var _ MessagePoster = (*WebhookPoster)(nil)
}

func TestWebhookPoster_Post(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("HTTPメソッド = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("リクエストボディがJSONではない: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	p := NewWebhookPoster(server.Client(), newTestLogger(&buf))

	msg := &Message{Text: ":runner: Taro ran 10 miles!"}
	if err := p.Post(context.Background(), server.URL, msg); err != nil {
		t.Fatalf("Post がエラーを返した: %v", err)
	}

	if received.Text != ":runner: Taro ran 10 miles!" {
		t.Errorf("受信したText = %q", received.Text)
	}
}

func TestWebhookPoster_Post_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	var buf bytes.Buffer
	p := NewWebhookPoster(server.Client(), newTestLogger(&buf))

	if err := p.Post(context.Background(), server.URL, &Message{Text: "x"}); err == nil {
		t.Fatal("400レスポンスに対してエラーを返すべき")
	}
}

func TestWebhookPoster_Post_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // すぐ閉じて接続エラーを発生させる

	var buf bytes.Buffer
	p := NewWebhookPoster(http.DefaultClient, newTestLogger(&buf))

	if err := p.Post(context.Background(), server.URL, &Message{Text: "x"}); err == nil {
		t.Fatal("接続エラーに対してエラーを返すべき")
	}
}
