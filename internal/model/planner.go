// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultPlannerColor は色未指定で作成されたプランナー項目の色。
const DefaultPlannerColor = "#6366f1"

// PlannerItem は週間プランナーの1項目を表す。
// Dateは対象タイムゾーンにおける暦日（"YYYY-MM-DD"）。
// SortOrderは同一日付内での表示順。
type PlannerItem struct {
	ID          string
	Text        string
	Date        string
	Color       string
	IsCompleted bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
