package calendar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// FeedService はカレンダーフィード登録・管理のサービス層。
// 登録時にURL検証とSSRF検証を行う。
type FeedService struct {
	feedRepo  repository.CalendarFeedRepository
	ssrfGuard SSRFValidator
}

// NewFeedService はFeedServiceの新しいインスタンスを生成する。
func NewFeedService(feedRepo repository.CalendarFeedRepository, ssrfGuard SSRFValidator) *FeedService {
	return &FeedService{
		feedRepo:  feedRepo,
		ssrfGuard: ssrfGuard,
	}
}

// ListFeeds は登録済みの全フィードを返す。
func (s *FeedService) ListFeeds(ctx context.Context) ([]*model.CalendarFeed, error) {
	return s.feedRepo.List(ctx)
}

// CreateFeed はフィードを検証して登録する。
// 色未指定の場合はデフォルト色が設定される。
func (s *FeedService) CreateFeed(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("フィード名を指定してください")
	}

	if err := s.validateFeedURL(rawURL); err != nil {
		return nil, err
	}

	if color == "" {
		color = model.DefaultCalendarFeedColor
	}

	now := time.Now()
	feed := &model.CalendarFeed{
		ID:        uuid.New().String(),
		Name:      name,
		URL:       rawURL,
		Color:     color,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.feedRepo.Create(ctx, feed); err != nil {
		return nil, fmt.Errorf("フィードの保存に失敗しました: %w", err)
	}

	return feed, nil
}

// UpdateFeed はフィードの属性を更新する。
// nilのフィールドは変更されない。URLを変更する場合は再検証される。
func (s *FeedService) UpdateFeed(ctx context.Context, feedID string, name, rawURL, color *string, enabled *bool) (*model.CalendarFeed, error) {
	feed, err := s.feedRepo.FindByID(ctx, feedID)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	if feed == nil {
		return nil, model.NewCalendarFeedNotFoundError(feedID)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, model.NewInvalidRequestError("フィード名を指定してください")
		}
		feed.Name = trimmed
	}
	if rawURL != nil {
		if err := s.validateFeedURL(*rawURL); err != nil {
			return nil, err
		}
		feed.URL = *rawURL
	}
	if color != nil && *color != "" {
		feed.Color = *color
	}
	if enabled != nil {
		feed.Enabled = *enabled
	}

	feed.UpdatedAt = time.Now()

	if err := s.feedRepo.Update(ctx, feed); err != nil {
		return nil, fmt.Errorf("フィードの更新に失敗しました: %w", err)
	}

	return feed, nil
}

// DeleteFeed はフィードを削除する。
func (s *FeedService) DeleteFeed(ctx context.Context, feedID string) error {
	feed, err := s.feedRepo.FindByID(ctx, feedID)
	if err != nil {
		return fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	if feed == nil {
		return model.NewCalendarFeedNotFoundError(feedID)
	}

	if err := s.feedRepo.Delete(ctx, feedID); err != nil {
		return fmt.Errorf("フィードの削除に失敗しました: %w", err)
	}

	return nil
}

// validateFeedURL はフィードURLの形式とSSRF安全性を検証する。
func (s *FeedService) validateFeedURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return model.NewInvalidURLError(rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return model.NewInvalidURLError(fmt.Sprintf("サポートされないスキームです: %s", u.Scheme))
	}

	if err := s.ssrfGuard.ValidateURL(rawURL); err != nil {
		return model.NewSSRFBlockedError()
	}

	return nil
}
