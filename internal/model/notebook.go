// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultNotebookColor は色未指定で作成されたノートブックの色。
const DefaultNotebookColor = "#6366f1"

// Notebook はノートをまとめるノートブックを表す。
type Notebook struct {
	ID        string
	Name      string
	Color     string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotebookWithCount はノートブックと所属ノート数を結合したモデル。
type NotebookWithCount struct {
	Notebook
	NoteCount int
}

// Tag はノートに付与されるタグを表す。
// タグはノートの保存時に名前で暗黙的に作成される。
type Tag struct {
	ID   string
	Name string
}

// TagWithCount はタグと付与されているノート数を結合したモデル。
type TagWithCount struct {
	Tag
	NoteCount int
}
