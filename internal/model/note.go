// Package model はドメインモデルを定義する。
package model

import "time"

// Note はノートを表す。ContentにはTipTapのJSONドキュメント
// （またはプレーンなHTML）が文字列として格納される。
type Note struct {
	ID         string
	Title      string
	Content    string
	IsPinned   bool
	IsArchived bool
	SortOrder  int
	NotebookID string // 未所属の場合は空文字列
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteWithRelations はノートと所属ノートブック・タグを結合したモデル。
// notebooks、note_tags、tagsテーブルとJOINして取得される。
type NoteWithRelations struct {
	Note
	Notebook *Notebook
	Tags     []Tag
}

// NoteFilter はノート一覧の絞り込み条件を表す。
// ゼロ値は「絞り込みなし（アーカイブ除外）」を意味する。
type NoteFilter struct {
	NotebookID string
	TagID      string
	PinnedOnly bool
	Archived   bool
	Search     string
}
