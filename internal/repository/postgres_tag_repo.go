package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/notevault/internal/model"
)

// PostgresTagRepo はPostgreSQLを使用したタグリポジトリ。
type PostgresTagRepo struct {
	db *sql.DB
}

// NewPostgresTagRepo はPostgresTagRepoを生成する。
func NewPostgresTagRepo(db *sql.DB) *PostgresTagRepo {
	return &PostgresTagRepo{db: db}
}

// List は全タグを付与ノート数付きで名前昇順で返す。
func (r *PostgresTagRepo) List(ctx context.Context) ([]*model.TagWithCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, COUNT(nt.note_id)
		 FROM tags t
		 LEFT JOIN note_tags nt ON nt.tag_id = t.id
		 GROUP BY t.id
		 ORDER BY t.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("タグ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var tags []*model.TagWithCount
	for rows.Next() {
		tag := &model.TagWithCount{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.NoteCount); err != nil {
			return nil, fmt.Errorf("タグ一覧の読み取りに失敗しました: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("タグ一覧の走査に失敗しました: %w", err)
	}

	return tags, nil
}

// FindByID は指定IDのタグを取得する。見つからない場合はnilを返す。
func (r *PostgresTagRepo) FindByID(ctx context.Context, id string) (*model.Tag, error) {
	tag := &model.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE id = $1`, id,
	).Scan(&tag.ID, &tag.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("タグの取得に失敗しました: %w", err)
	}

	return tag, nil
}

// Delete は指定IDのタグを削除する。
func (r *PostgresTagRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("タグの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TagRepository = (*PostgresTagRepo)(nil)
