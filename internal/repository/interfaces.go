// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/notevault/internal/model"
)

// NoteRepository はノートデータの永続化インターフェース。
type NoteRepository interface {
	// List はフィルタ条件に一致するノートを関連情報付きで返す。
	// 並び順はsort_order降順、updated_at降順。
	List(ctx context.Context, filter model.NoteFilter) ([]*model.NoteWithRelations, error)

	// FindByID は指定IDのノートを関連情報付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.NoteWithRelations, error)

	// MaxSortOrder は全ノートのsort_orderの最大値を返す。ノートが存在しない場合は-1。
	MaxSortOrder(ctx context.Context) (int, error)

	// Create はノートを作成する。
	Create(ctx context.Context, note *model.Note) error

	// Update はノートを更新する。
	Update(ctx context.Context, note *model.Note) error

	// Delete は指定IDのノートを削除する。関連するnote_tagsはCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// ReplaceTags はノートのタグ集合を指定された名前群で置き換える。
	// 存在しないタグ名は同一トランザクション内で新規作成される。
	ReplaceTags(ctx context.Context, noteID string, tagNames []string) error
}

// NotebookRepository はノートブックデータの永続化インターフェース。
type NotebookRepository interface {
	// List は全ノートブックをノート数付きでsort_order昇順で返す。
	List(ctx context.Context) ([]*model.NotebookWithCount, error)

	// FindByID は指定IDのノートブックを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Notebook, error)

	// MaxSortOrder は全ノートブックのsort_orderの最大値を返す。存在しない場合は-1。
	MaxSortOrder(ctx context.Context) (int, error)

	// Create はノートブックを作成する。
	Create(ctx context.Context, notebook *model.Notebook) error

	// Update はノートブックを更新する。
	Update(ctx context.Context, notebook *model.Notebook) error

	// Delete は指定IDのノートブックを削除する。
	// 所属ノートはFK制約（ON DELETE SET NULL）により未所属になる。
	Delete(ctx context.Context, id string) error

	// Reorder は与えられたID列の順序どおりにsort_orderを振り直す。
	// 全更新は同一トランザクションで実行される。
	Reorder(ctx context.Context, ids []string) error
}

// TagRepository はタグデータの永続化インターフェース。
// タグの作成はNoteRepository.ReplaceTags経由で暗黙的に行われる。
type TagRepository interface {
	// List は全タグを付与ノート数付きで名前昇順で返す。
	List(ctx context.Context) ([]*model.TagWithCount, error)

	// FindByID は指定IDのタグを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Tag, error)

	// Delete は指定IDのタグを削除する。関連するnote_tagsはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// PlannerRepository はプランナー項目の永続化インターフェース。
type PlannerRepository interface {
	// ListByDateRange は暦日範囲[from, to]内の項目を返す。
	// fromとtoの両方が空の場合は全項目を返す。
	// 並び順はdate昇順、sort_order昇順、created_at昇順。
	ListByDateRange(ctx context.Context, from, to string) ([]*model.PlannerItem, error)

	// FindByID は指定IDの項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PlannerItem, error)

	// MaxSortOrderForDate は指定日付内のsort_orderの最大値を返す。項目がない場合は-1。
	MaxSortOrderForDate(ctx context.Context, date string) (int, error)

	// Create は項目を作成する。
	Create(ctx context.Context, item *model.PlannerItem) error

	// Update は項目を更新する。
	Update(ctx context.Context, item *model.PlannerItem) error

	// Delete は指定IDの項目を削除する。
	Delete(ctx context.Context, id string) error
}

// CalendarFeedRepository はカレンダーフィードの永続化インターフェース。
type CalendarFeedRepository interface {
	// List は全フィードをcreated_at昇順で返す。
	List(ctx context.Context) ([]*model.CalendarFeed, error)

	// ListEnabled は有効なフィードのみをcreated_at昇順で返す。
	ListEnabled(ctx context.Context) ([]*model.CalendarFeed, error)

	// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.CalendarFeed, error)

	// Create はフィードを作成する。
	Create(ctx context.Context, feed *model.CalendarFeed) error

	// Update はフィードを更新する。
	Update(ctx context.Context, feed *model.CalendarFeed) error

	// Delete は指定IDのフィードを削除する。
	Delete(ctx context.Context, id string) error
}
