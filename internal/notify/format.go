package notify

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hako/durafmt"

	"github.com/hitoshi/clubcast/internal/model"
	"github.com/hitoshi/clubcast/internal/security"
)

const (
	// metersToMiles はメートルからマイルへの換算係数。
	metersToMiles = 0.00062137

	athleteLinkFormat  = "https://www.strava.com/athletes/%d"
	activityLinkFormat = "https://www.strava.com/activities/%d"

	// noPace は距離0のアクティビティに対するペース表示。
	noPace = "-"
)

// verbs はアクティビティ種別から過去形動詞への変換テーブル。
// 未定義の種別は種別名をそのまま使用する。
var verbs = map[string]string{
	"Ride": "rode",
	"Run":  "ran",
}

// emoji はアクティビティ種別から絵文字への変換テーブル。
// 未定義の種別には絵文字を付けない。
var emoji = map[string]string{
	"Ride": ":bike:",
	"Run":  ":runner:",
	"Swim": ":swimmer:",
}

// Miles はメートルをマイルへ換算し、小数第2位に丸める。
func Miles(meters float64) float64 {
	return math.Round(meters*metersToMiles*100) / 100
}

// Pace は移動時間と距離から「分:秒/マイル」のペース文字列を計算する。
// 距離が0以下の場合はペースを定義できないため noPace を返す。
func Pace(movingTimeSec int, miles float64) string {
	if miles <= 0 {
		return noPace
	}

	minPerMile := (float64(movingTimeSec) / 60) / miles
	m := int(math.Floor(minPerMile))
	s := int(math.Round(math.Mod(minPerMile, 1) * 60))
	return fmt.Sprintf("%d:%02d/mi", m, s)
}

// HumanDuration は経過秒数を人間向けの文字列に変換する（例: "50 minutes"）。
func HumanDuration(elapsedSec int) string {
	return durafmt.Parse(time.Duration(elapsedSec) * time.Second).String()
}

// verbFor はアクティビティ種別に対応する過去形動詞を返す。
func verbFor(activityType string) string {
	if v, ok := verbs[activityType]; ok {
		return v
	}
	return activityType
}

// emojiFor はアクティビティ種別に対応する絵文字を返す。未定義の種別は空文字列。
func emojiFor(activityType string) string {
	return emoji[activityType]
}

// formatNumber は数値を末尾ゼロなしの最短表現で文字列化する（10.0→"10"、10.25→"10.25"）。
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Formatter はアクティビティ詳細から通知メッセージを組み立てる純粋な整形器。
// 出力形式（rich/flat）は起動時の設定で固定される。
type Formatter struct {
	style     model.MessageStyle
	sanitizer security.NameSanitizerService
	username  string
	iconURL   string
}

// NewFormatter はFormatterの新しいインスタンスを生成する。
func NewFormatter(style model.MessageStyle, sanitizer security.NameSanitizerService, username, iconURL string) *Formatter {
	return &Formatter{
		style:     style,
		sanitizer: sanitizer,
		username:  username,
		iconURL:   iconURL,
	}
}

// Format はアスリートとアクティビティ詳細から通知メッセージを組み立てる。
// アスリート名とアクティビティ名はHTMLタグ除去のサニタイズを通してから埋め込む。
func (f *Formatter) Format(athlete model.Athlete, detail *model.ActivityDetail) *Message {
	firstName := f.sanitizer.Sanitize(athlete.FirstName)
	lastName := f.sanitizer.Sanitize(athlete.LastName)
	activityName := f.sanitizer.Sanitize(detail.Name)

	profileLink := fmt.Sprintf(athleteLinkFormat, athlete.ID)
	activityLink := fmt.Sprintf(activityLinkFormat, detail.ID)

	miles := Miles(detail.Distance)
	verb := verbFor(detail.Type)
	title := fmt.Sprintf("%s %s %s miles!", firstName, verb, formatNumber(miles))

	msg := &Message{
		Username: f.username,
		IconURL:  f.iconURL,
	}

	if f.style == model.MessageStyleFlat {
		text := fmt.Sprintf("%s %s %s miles! %s", firstName, verb, formatNumber(miles), activityLink)
		if e := emojiFor(detail.Type); e != "" {
			text = e + " " + text
		}
		msg.Text = text
		return msg
	}

	msg.Attachments = []Attachment{
		{
			Fallback:   title,
			AuthorName: firstName + " " + lastName,
			AuthorLink: profileLink,
			AuthorIcon: athlete.ProfileMedium,
			Title:      title,
			TitleLink:  activityLink,
			Text:       activityName,
			Fields: []Field{
				{Title: "Distance", Value: formatNumber(miles) + "mi", Short: true},
				{Title: "Time", Value: HumanDuration(detail.ElapsedTime), Short: true},
				{Title: "Pace", Value: Pace(detail.MovingTime, miles), Short: true},
				{Title: "Elevation", Value: formatNumber(detail.TotalElevationGain) + "ft", Short: true},
			},
			ImageURL: detail.Photos.ImageURL(),
			ThumbURL: detail.Photos.ThumbURL(),
		},
	}

	return msg
}
