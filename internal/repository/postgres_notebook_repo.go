package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/notevault/internal/model"
)

// PostgresNotebookRepo はPostgreSQLを使用したノートブックリポジトリ。
type PostgresNotebookRepo struct {
	db *sql.DB
}

// NewPostgresNotebookRepo はPostgresNotebookRepoを生成する。
func NewPostgresNotebookRepo(db *sql.DB) *PostgresNotebookRepo {
	return &PostgresNotebookRepo{db: db}
}

// List は全ノートブックをノート数付きでsort_order昇順で返す。
func (r *PostgresNotebookRepo) List(ctx context.Context) ([]*model.NotebookWithCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT nb.id, nb.name, nb.color, nb.sort_order, nb.created_at, nb.updated_at,
		        COUNT(n.id)
		 FROM notebooks nb
		 LEFT JOIN notes n ON n.notebook_id = nb.id
		 GROUP BY nb.id
		 ORDER BY nb.sort_order ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ノートブック一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notebooks []*model.NotebookWithCount
	for rows.Next() {
		nb := &model.NotebookWithCount{}
		if err := rows.Scan(
			&nb.ID, &nb.Name, &nb.Color, &nb.SortOrder,
			&nb.CreatedAt, &nb.UpdatedAt, &nb.NoteCount,
		); err != nil {
			return nil, fmt.Errorf("ノートブック一覧の読み取りに失敗しました: %w", err)
		}
		notebooks = append(notebooks, nb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ノートブック一覧の走査に失敗しました: %w", err)
	}

	return notebooks, nil
}

// FindByID は指定IDのノートブックを取得する。見つからない場合はnilを返す。
func (r *PostgresNotebookRepo) FindByID(ctx context.Context, id string) (*model.Notebook, error) {
	nb := &model.Notebook{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, sort_order, created_at, updated_at
		 FROM notebooks WHERE id = $1`,
		id,
	).Scan(&nb.ID, &nb.Name, &nb.Color, &nb.SortOrder, &nb.CreatedAt, &nb.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートブックの取得に失敗しました: %w", err)
	}

	return nb, nil
}

// MaxSortOrder は全ノートブックのsort_orderの最大値を返す。存在しない場合は-1。
func (r *PostgresNotebookRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) FROM notebooks`,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("ノートブックのsort_order最大値の取得に失敗しました: %w", err)
	}
	return max, nil
}

// Create はノートブックを作成する。
func (r *PostgresNotebookRepo) Create(ctx context.Context, notebook *model.Notebook) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notebooks (id, name, color, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		notebook.ID, notebook.Name, notebook.Color, notebook.SortOrder,
		notebook.CreatedAt, notebook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ノートブックの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はノートブックを更新する。
func (r *PostgresNotebookRepo) Update(ctx context.Context, notebook *model.Notebook) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notebooks SET name = $2, color = $3, sort_order = $4, updated_at = $5
		 WHERE id = $1`,
		notebook.ID, notebook.Name, notebook.Color, notebook.SortOrder, notebook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ノートブックの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのノートブックを削除する。
// 所属ノートのnotebook_idはFK制約によりNULLになる。
func (r *PostgresNotebookRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ノートブックの削除に失敗しました: %w", err)
	}
	return nil
}

// Reorder は与えられたID列の順序どおりにsort_orderを振り直す。
func (r *PostgresNotebookRepo) Reorder(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("並べ替えトランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE notebooks SET sort_order = $2, updated_at = now() WHERE id = $1`,
			id, i,
		); err != nil {
			return fmt.Errorf("ノートブックの並べ替えに失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("並べ替えトランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ NotebookRepository = (*PostgresNotebookRepo)(nil)
