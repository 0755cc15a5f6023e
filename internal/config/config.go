package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hitoshi/clubcast/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Strava
	StravaToken string
	Clubs       []model.Club
	ListPerPage int

	// Poll
	CheckInterval      time.Duration
	FetchTimeout       time.Duration
	MaxConcurrentClubs int

	// Notification
	MessageStyle  model.MessageStyle
	SlackUsername string
	SlackIconURL  string

	// Server
	ServerPort string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合、またはクラブ設定が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.StravaToken = os.Getenv("STRAVA_TOKEN")
	if cfg.StravaToken == "" {
		missing = append(missing, "STRAVA_TOKEN")
	}

	clubsJSON := os.Getenv("STRAVA_CLUBS")
	if clubsJSON == "" {
		missing = append(missing, "STRAVA_CLUBS")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	clubs, err := parseClubs(clubsJSON)
	if err != nil {
		return nil, err
	}
	cfg.Clubs = clubs

	// Optional fields with defaults
	cfg.ListPerPage = getEnvInt("LIST_PER_PAGE", 200)
	if cfg.ListPerPage < 1 || cfg.ListPerPage > 200 {
		cfg.ListPerPage = 200
	}
	cfg.CheckInterval = getEnvDuration("CHECK_INTERVAL", 15*time.Minute)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.MaxConcurrentClubs = getEnvInt("MAX_CONCURRENT_CLUBS", 5)
	cfg.SlackUsername = getEnvString("SLACK_USERNAME", "")
	cfg.SlackIconURL = getEnvString("SLACK_ICON_URL", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")

	style := model.MessageStyle(getEnvString("MESSAGE_STYLE", string(model.MessageStyleRich)))
	if !style.Valid() {
		return nil, model.NewConfigError(fmt.Sprintf("MESSAGE_STYLE は rich または flat を指定してください: %q", style))
	}
	cfg.MessageStyle = style

	return cfg, nil
}

// parseClubs はSTRAVA_CLUBS環境変数のJSON配列をパースして検証する。
// 形式: [{"id": 123456, "webhook": "https://hooks.slack.com/services/..."}]
func parseClubs(raw string) ([]model.Club, error) {
	var clubs []model.Club
	if err := json.Unmarshal([]byte(raw), &clubs); err != nil {
		return nil, model.NewConfigError(fmt.Sprintf("STRAVA_CLUBS のJSONパースに失敗しました: %v", err))
	}
	if len(clubs) == 0 {
		return nil, model.NewConfigError("STRAVA_CLUBS に監視対象のクラブが1件もありません")
	}

	for i, club := range clubs {
		if club.ID <= 0 {
			return nil, model.NewConfigError(fmt.Sprintf("STRAVA_CLUBS[%d] のidが不正です: %d", i, club.ID))
		}
		u, err := url.Parse(club.Webhook)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, model.NewConfigError(fmt.Sprintf("STRAVA_CLUBS[%d] のwebhookがURLとして不正です: %q", i, club.Webhook))
		}
	}

	return clubs, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
