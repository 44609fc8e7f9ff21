// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultCalendarFeedColor は色未指定で登録されたフィードの表示色。
const DefaultCalendarFeedColor = "#3b82f6"

// CalendarFeed は購読中の外部カレンダーフィード（iCalendar）を表す。
// 読み取り専用の集約対象であり、フィード側への書き込みは行わない。
type CalendarFeed struct {
	ID        string
	Name      string
	URL       string
	Color     string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarOccurrence は展開済みのカレンダーイベント1件を表す。
// 問い合わせのたびに計算される純粋な導出値であり、永続化されない。
//
// IDは "{uid}_{date}" 形式。同一(uid, date)内でのみ一意であり、
// フィードを跨いだUIDの衝突では重複しうる（集約側は重複排除しない）。
type CalendarOccurrence struct {
	ID        string
	Title     string
	Date      string // 対象タイムゾーンでの暦日 "YYYY-MM-DD"
	StartTime string // 12時間表記。終日の場合は空
	EndTime   string // 12時間表記。終日の場合は空
	AllDay    bool
	FeedName  string
	FeedColor string
}

// ExportPayload はバックアップエクスポートの出力全体を表す。
type ExportPayload struct {
	ExportedAt time.Time      `json:"exportedAt"`
	Version    int            `json:"version"`
	Notebooks  []Notebook     `json:"notebooks"`
	Tags       []Tag          `json:"tags"`
	Notes      []ExportedNote `json:"notes"`
}

// ExportedNote はエクスポート用にタグ名とノートブック名を展開したノート。
type ExportedNote struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsPinned     bool      `json:"isPinned"`
	NotebookID   *string   `json:"notebookId"`
	NotebookName *string   `json:"notebookName"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
