package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestActivitySummary_UnmarshalsStravaJSON(t *testing.T) {
	raw := `{
		"id": 987654321,
		"athlete": {"id": 42, "firstname": "太郎", "lastname": "山田", "profile_medium": "https://example.com/p.jpg"},
		"name": "Morning Run",
		"type": "Run",
		"start_date": "2024-05-01T06:30:00Z",
		"commute": false,
		"distance": 5000.5
	}`

	var s ActivitySummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("JSONのデコードに失敗した: %v", err)
	}

	if s.ID != 987654321 {
		t.Errorf("ID = %d, want 987654321", s.ID)
	}
	if s.Athlete.FirstName != "太郎" {
		t.Errorf("FirstName = %q, want 太郎", s.Athlete.FirstName)
	}
	want := time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC)
	if !s.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", s.StartDate, want)
	}
	if s.Distance != 5000.5 {
		t.Errorf("Distance = %f, want 5000.5", s.Distance)
	}
}

func TestActivityPhotos_URLs(t *testing.T) {
	p := ActivityPhotos{
		Primary: &PrimaryPhoto{
			Urls: map[string]string{
				"100": "https://example.com/thumb.jpg",
				"600": "https://example.com/full.jpg",
			},
		},
	}

	if got := p.ImageURL(); got != "https://example.com/full.jpg" {
		t.Errorf("ImageURL() = %q, want https://example.com/full.jpg", got)
	}
	if got := p.ThumbURL(); got != "https://example.com/thumb.jpg" {
		t.Errorf("ThumbURL() = %q, want https://example.com/thumb.jpg", got)
	}
}

func TestActivityPhotos_NoPrimary(t *testing.T) {
	var p ActivityPhotos
	if got := p.ImageURL(); got != "" {
		t.Errorf("写真なしのImageURL() = %q, want 空文字列", got)
	}
	if got := p.ThumbURL(); got != "" {
		t.Errorf("写真なしのThumbURL() = %q, want 空文字列", got)
	}
}

func TestMessageStyle_Valid(t *testing.T) {
	if !MessageStyleRich.Valid() {
		t.Error("rich は有効なMessageStyleであるべき")
	}
	if !MessageStyleFlat.Valid() {
		t.Error("flat は有効なMessageStyleであるべき")
	}
	if MessageStyle("markdown").Valid() {
		t.Error("markdown は無効なMessageStyleであるべき")
	}
}

func TestOpsError_Error(t *testing.T) {
	err := NewConfigError("STRAVA_TOKEN が未設定")
	want := "[CONFIG_INVALID] 設定が不正です: STRAVA_TOKEN が未設定"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Category != "config" {
		t.Errorf("Category = %q, want config", err.Category)
	}
}
