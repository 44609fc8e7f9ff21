package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/notevault/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用したノートリポジトリ。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// noteSelectColumns はノート取得系クエリで共通のSELECT句。
// ノートブックはLEFT JOINで同時に取得する。
const noteSelectColumns = `
	n.id, n.title, n.content, n.is_pinned, n.is_archived, n.sort_order,
	n.notebook_id, n.created_at, n.updated_at,
	nb.id, nb.name, nb.color, nb.sort_order, nb.created_at, nb.updated_at`

// List はフィルタ条件に一致するノートを関連情報付きで返す。
func (r *PostgresNoteRepo) List(ctx context.Context, filter model.NoteFilter) ([]*model.NoteWithRelations, error) {
	query := `SELECT ` + noteSelectColumns + `
		FROM notes n
		LEFT JOIN notebooks nb ON n.notebook_id = nb.id
		WHERE n.is_archived = $1`
	args := []any{filter.Archived}

	if filter.NotebookID != "" {
		args = append(args, filter.NotebookID)
		query += fmt.Sprintf(" AND n.notebook_id = $%d", len(args))
	}
	if filter.TagID != "" {
		args = append(args, filter.TagID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag_id = $%d)", len(args))
	}
	if filter.PinnedOnly {
		query += " AND n.is_pinned = TRUE"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (n.title ILIKE $%d OR n.content ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY n.sort_order DESC, n.updated_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notes []*model.NoteWithRelations
	for rows.Next() {
		note, err := scanNoteRow(rows)
		if err != nil {
			return nil, fmt.Errorf("ノート一覧の読み取りに失敗しました: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ノート一覧の走査に失敗しました: %w", err)
	}

	if err := r.attachTags(ctx, notes); err != nil {
		return nil, err
	}

	return notes, nil
}

// FindByID は指定IDのノートを関連情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresNoteRepo) FindByID(ctx context.Context, id string) (*model.NoteWithRelations, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+noteSelectColumns+`
		 FROM notes n
		 LEFT JOIN notebooks nb ON n.notebook_id = nb.id
		 WHERE n.id = $1`,
		id,
	)

	note, err := scanNoteRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}

	if err := r.attachTags(ctx, []*model.NoteWithRelations{note}); err != nil {
		return nil, err
	}

	return note, nil
}

// MaxSortOrder は全ノートのsort_orderの最大値を返す。ノートが存在しない場合は-1。
func (r *PostgresNoteRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) FROM notes`,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("ノートのsort_order最大値の取得に失敗しました: %w", err)
	}
	return max, nil
}

// Create はノートを作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, is_pinned, is_archived, sort_order,
		                    notebook_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		note.ID, note.Title, note.Content, note.IsPinned, note.IsArchived,
		note.SortOrder, nullString(note.NotebookID), note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はノートを更新する。
func (r *PostgresNoteRepo) Update(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET
		    title = $2, content = $3, is_pinned = $4, is_archived = $5,
		    sort_order = $6, notebook_id = $7, updated_at = $8
		 WHERE id = $1`,
		note.ID, note.Title, note.Content, note.IsPinned, note.IsArchived,
		note.SortOrder, nullString(note.NotebookID), note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのノートを削除する。
func (r *PostgresNoteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}
	return nil
}

// ReplaceTags はノートのタグ集合を指定された名前群で置き換える。
func (r *PostgresNoteRepo) ReplaceTags(ctx context.Context, noteID string, tagNames []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("タグ更新トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM note_tags WHERE note_id = $1`, noteID,
	); err != nil {
		return fmt.Errorf("既存タグ関連の削除に失敗しました: %w", err)
	}

	for _, name := range tagNames {
		var tagID string
		// タグを名前でUPSERTし、既存・新規を問わずIDを取得する。
		err := tx.QueryRowContext(ctx,
			`INSERT INTO tags (id, name) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			uuid.New().String(), name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("タグのUPSERTに失敗しました: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			noteID, tagID,
		); err != nil {
			return fmt.Errorf("タグ関連の作成に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("タグ更新トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// attachTags は取得済みノートにタグを一括ロードして紐付ける。
// ノートごとのN+1クエリを避けるためANY句で1回のクエリにまとめる。
func (r *PostgresNoteRepo) attachTags(ctx context.Context, notes []*model.NoteWithRelations) error {
	if len(notes) == 0 {
		return nil
	}

	ids := make([]string, len(notes))
	byID := make(map[string]*model.NoteWithRelations, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
		byID[n.ID] = n
		n.Tags = []model.Tag{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT nt.note_id, t.id, t.name
		 FROM note_tags nt
		 INNER JOIN tags t ON nt.tag_id = t.id
		 WHERE nt.note_id = ANY($1)
		 ORDER BY t.name ASC`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("ノートのタグ取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID string
		var tag model.Tag
		if err := rows.Scan(&noteID, &tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("ノートのタグ読み取りに失敗しました: %w", err)
		}
		if n, ok := byID[noteID]; ok {
			n.Tags = append(n.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ノートのタグ走査に失敗しました: %w", err)
	}

	return nil
}

// scanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type scanner interface {
	Scan(dest ...any) error
}

// scanNoteRow はノート+ノートブックのJOIN結果1行を読み取る。
func scanNoteRow(s scanner) (*model.NoteWithRelations, error) {
	note := &model.NoteWithRelations{}
	var notebookID sql.NullString
	var nbID, nbName, nbColor sql.NullString
	var nbSortOrder sql.NullInt64
	var nbCreatedAt, nbUpdatedAt sql.NullTime

	err := s.Scan(
		&note.ID, &note.Title, &note.Content, &note.IsPinned, &note.IsArchived,
		&note.SortOrder, &notebookID, &note.CreatedAt, &note.UpdatedAt,
		&nbID, &nbName, &nbColor, &nbSortOrder, &nbCreatedAt, &nbUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.NotebookID = nullStringValue(notebookID)
	if nbID.Valid {
		note.Notebook = &model.Notebook{
			ID:        nbID.String,
			Name:      nbName.String,
			Color:     nbColor.String,
			SortOrder: int(nbSortOrder.Int64),
			CreatedAt: nbCreatedAt.Time,
			UpdatedAt: nbUpdatedAt.Time,
		}
	}

	return note, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
