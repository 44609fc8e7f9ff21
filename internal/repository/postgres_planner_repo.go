package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/notevault/internal/model"
)

// PostgresPlannerRepo はPostgreSQLを使用したプランナー項目リポジトリ。
type PostgresPlannerRepo struct {
	db *sql.DB
}

// NewPostgresPlannerRepo はPostgresPlannerRepoを生成する。
func NewPostgresPlannerRepo(db *sql.DB) *PostgresPlannerRepo {
	return &PostgresPlannerRepo{db: db}
}

// ListByDateRange は暦日範囲[from, to]内の項目を返す。
// 日付はゼロ埋めISO形式（"YYYY-MM-DD"）のため文字列比較で時系列順になる。
func (r *PostgresPlannerRepo) ListByDateRange(ctx context.Context, from, to string) ([]*model.PlannerItem, error) {
	query := `SELECT id, text, date, color, is_completed, sort_order, created_at, updated_at
	          FROM planner_items`
	var args []any

	if from != "" && to != "" {
		query += ` WHERE date >= $1 AND date <= $2`
		args = append(args, from, to)
	}

	query += ` ORDER BY date ASC, sort_order ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("プランナー項目一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []*model.PlannerItem
	for rows.Next() {
		item := &model.PlannerItem{}
		if err := rows.Scan(
			&item.ID, &item.Text, &item.Date, &item.Color,
			&item.IsCompleted, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("プランナー項目の読み取りに失敗しました: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("プランナー項目の走査に失敗しました: %w", err)
	}

	return items, nil
}

// FindByID は指定IDの項目を取得する。見つからない場合はnilを返す。
func (r *PostgresPlannerRepo) FindByID(ctx context.Context, id string) (*model.PlannerItem, error) {
	item := &model.PlannerItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, date, color, is_completed, sort_order, created_at, updated_at
		 FROM planner_items WHERE id = $1`,
		id,
	).Scan(
		&item.ID, &item.Text, &item.Date, &item.Color,
		&item.IsCompleted, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プランナー項目の取得に失敗しました: %w", err)
	}

	return item, nil
}

// MaxSortOrderForDate は指定日付内のsort_orderの最大値を返す。項目がない場合は-1。
func (r *PostgresPlannerRepo) MaxSortOrderForDate(ctx context.Context, date string) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) FROM planner_items WHERE date = $1`,
		date,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("プランナー項目のsort_order最大値の取得に失敗しました: %w", err)
	}
	return max, nil
}

// Create は項目を作成する。
func (r *PostgresPlannerRepo) Create(ctx context.Context, item *model.PlannerItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO planner_items (id, text, date, color, is_completed, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Text, item.Date, item.Color,
		item.IsCompleted, item.SortOrder, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("プランナー項目の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は項目を更新する。
func (r *PostgresPlannerRepo) Update(ctx context.Context, item *model.PlannerItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE planner_items SET
		    text = $2, date = $3, color = $4, is_completed = $5,
		    sort_order = $6, updated_at = $7
		 WHERE id = $1`,
		item.ID, item.Text, item.Date, item.Color,
		item.IsCompleted, item.SortOrder, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("プランナー項目の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの項目を削除する。
func (r *PostgresPlannerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM planner_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("プランナー項目の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PlannerRepository = (*PostgresPlannerRepo)(nil)
