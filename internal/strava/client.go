// Package strava はStrava v3 APIのクライアントを提供する。
// クラブアクティビティの一覧取得とアクティビティ詳細の取得を含む。
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hitoshi/clubcast/internal/model"
)

const (
	// defaultBaseURL はStrava v3 APIのベースURL。
	defaultBaseURL = "https://www.strava.com/api/v3"
	// maxPerPage は一覧取得APIの1ページあたり最大件数。
	maxPerPage = 200
)

// Client はStrava APIのクライアント。
// 共有アクセストークンでクラブアクティビティ一覧と詳細を取得する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	token      string
	baseURL    string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, token string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		token:      token,
		baseURL:    defaultBaseURL,
	}
}

// ListClubActivities は指定クラブのアクティビティ一覧を取得する。
// perPageは1〜200の範囲に丸められる。結果が0件の場合は空スライスを返す。
func (c *Client) ListClubActivities(ctx context.Context, clubID int64, perPage int) ([]model.ActivitySummary, error) {
	if perPage < 1 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	reqURL := fmt.Sprintf("%s/clubs/%d/activities", c.baseURL, clubID)
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))

	body, err := c.get(ctx, reqURL+"?"+q.Encode())
	if err != nil {
		c.logger.Error("クラブアクティビティ一覧の取得に失敗しました",
			slog.Int64("club_id", clubID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	var activities []model.ActivitySummary
	if err := json.Unmarshal(body, &activities); err != nil {
		c.logger.Error("クラブアクティビティ一覧のパースに失敗しました",
			slog.Int64("club_id", clubID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("アクティビティ一覧JSONのパースに失敗しました: %w", err)
	}

	return activities, nil
}

// GetActivity は指定IDのアクティビティ詳細を取得する。
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*model.ActivityDetail, error) {
	reqURL := fmt.Sprintf("%s/activities/%d", c.baseURL, activityID)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		c.logger.Error("アクティビティ詳細の取得に失敗しました",
			slog.Int64("activity_id", activityID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	var detail model.ActivityDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		c.logger.Error("アクティビティ詳細のパースに失敗しました",
			slog.Int64("activity_id", activityID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("アクティビティ詳細JSONのパースに失敗しました: %w", err)
	}

	return &detail, nil
}

// get は認証付きGETリクエストを実行し、レスポンスボディを返す。
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Clubcast/1.0")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Strava APIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return body, nil
}
