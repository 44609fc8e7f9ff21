package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/notevault/internal/model"
)

// PostgresCalendarFeedRepo はPostgreSQLを使用したカレンダーフィードリポジトリ。
type PostgresCalendarFeedRepo struct {
	db *sql.DB
}

// NewPostgresCalendarFeedRepo はPostgresCalendarFeedRepoを生成する。
func NewPostgresCalendarFeedRepo(db *sql.DB) *PostgresCalendarFeedRepo {
	return &PostgresCalendarFeedRepo{db: db}
}

// List は全フィードをcreated_at昇順で返す。
func (r *PostgresCalendarFeedRepo) List(ctx context.Context) ([]*model.CalendarFeed, error) {
	return r.list(ctx, false)
}

// ListEnabled は有効なフィードのみをcreated_at昇順で返す。
func (r *PostgresCalendarFeedRepo) ListEnabled(ctx context.Context) ([]*model.CalendarFeed, error) {
	return r.list(ctx, true)
}

func (r *PostgresCalendarFeedRepo) list(ctx context.Context, enabledOnly bool) ([]*model.CalendarFeed, error) {
	query := `SELECT id, name, url, color, enabled, created_at, updated_at
	          FROM calendar_feeds`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("カレンダーフィード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var feeds []*model.CalendarFeed
	for rows.Next() {
		feed := &model.CalendarFeed{}
		if err := rows.Scan(
			&feed.ID, &feed.Name, &feed.URL, &feed.Color,
			&feed.Enabled, &feed.CreatedAt, &feed.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("カレンダーフィードの読み取りに失敗しました: %w", err)
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カレンダーフィードの走査に失敗しました: %w", err)
	}

	return feeds, nil
}

// FindByID は指定IDのフィードを取得する。見つからない場合はnilを返す。
func (r *PostgresCalendarFeedRepo) FindByID(ctx context.Context, id string) (*model.CalendarFeed, error) {
	feed := &model.CalendarFeed{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, url, color, enabled, created_at, updated_at
		 FROM calendar_feeds WHERE id = $1`,
		id,
	).Scan(
		&feed.ID, &feed.Name, &feed.URL, &feed.Color,
		&feed.Enabled, &feed.CreatedAt, &feed.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カレンダーフィードの取得に失敗しました: %w", err)
	}

	return feed, nil
}

// Create はフィードを作成する。
func (r *PostgresCalendarFeedRepo) Create(ctx context.Context, feed *model.CalendarFeed) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calendar_feeds (id, name, url, color, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		feed.ID, feed.Name, feed.URL, feed.Color, feed.Enabled,
		feed.CreatedAt, feed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("カレンダーフィードの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はフィードを更新する。
func (r *PostgresCalendarFeedRepo) Update(ctx context.Context, feed *model.CalendarFeed) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendar_feeds SET
		    name = $2, url = $3, color = $4, enabled = $5, updated_at = $6
		 WHERE id = $1`,
		feed.ID, feed.Name, feed.URL, feed.Color, feed.Enabled, feed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("カレンダーフィードの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのフィードを削除する。
func (r *PostgresCalendarFeedRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendar_feeds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("カレンダーフィードの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CalendarFeedRepository = (*PostgresCalendarFeedRepo)(nil)
