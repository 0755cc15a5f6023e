// Package model はドメインモデルを定義する。
package model

import "time"

// Athlete はアクティビティの記録者を表す。
type Athlete struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	ProfileMedium string `json:"profile_medium"`
}

// ActivitySummary はクラブアクティビティ一覧APIが返す概要レコードを表す。
// 識別子以外は永続化されない。
type ActivitySummary struct {
	ID        int64     `json:"id"`
	Athlete   Athlete   `json:"athlete"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
	Commute   bool      `json:"commute"`
	Distance  float64   `json:"distance"`
}

// ActivityDetail はアクティビティ詳細APIが返すフルレコードを表す。
type ActivityDetail struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	Type               string         `json:"type"`
	Distance           float64        `json:"distance"`
	MovingTime         int            `json:"moving_time"`
	ElapsedTime        int            `json:"elapsed_time"`
	TotalElevationGain float64        `json:"total_elevation_gain"`
	StartDate          time.Time      `json:"start_date"`
	Photos             ActivityPhotos `json:"photos"`
}

// ActivityPhotos はアクティビティに添付された写真情報を表す。
type ActivityPhotos struct {
	Primary *PrimaryPhoto `json:"primary"`
}

// PrimaryPhoto は代表写真のURL群を表す。
// キーはサイズ（"100"はサムネイル、"600"はフルサイズ）。
type PrimaryPhoto struct {
	Urls map[string]string `json:"urls"`
}

// ImageURL は代表写真のフルサイズURLを返す。写真がない場合は空文字列。
func (p ActivityPhotos) ImageURL() string {
	if p.Primary == nil {
		return ""
	}
	return p.Primary.Urls["600"]
}

// ThumbURL は代表写真のサムネイルURLを返す。写真がない場合は空文字列。
func (p ActivityPhotos) ThumbURL() string {
	if p.Primary == nil {
		return ""
	}
	return p.Primary.Urls["100"]
}

// SeenActivity は処理済みアクティビティの永続化レコードを表す。
// 一覧レスポンスで初めて観測された時点で作成され、以後更新も削除もされない。
// このレコードの集合が重複排除インデックスとなる。
type SeenActivity struct {
	ActivityID int64
	CreatedAt  time.Time
}
