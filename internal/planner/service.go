// Package planner は週間プランナーのドメインロジックを提供する。
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// civilDateLayout はプランナー項目の暦日形式。
const civilDateLayout = "2006-01-02"

// CreateInput はプランナー項目作成の入力。
type CreateInput struct {
	Text  string
	Date  string
	Color string
}

// UpdateInput はプランナー項目更新の入力。nilのフィールドは変更されない。
type UpdateInput struct {
	Text        *string
	Date        *string
	Color       *string
	IsCompleted *bool
	SortOrder   *int
}

// Service は週間プランナーのサービス層。
type Service struct {
	plannerRepo repository.PlannerRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(plannerRepo repository.PlannerRepository) *Service {
	return &Service{plannerRepo: plannerRepo}
}

// ListItems は暦日範囲[from, to]内の項目を返す。
// fromとtoの両方が空の場合は全項目を返す。
func (s *Service) ListItems(ctx context.Context, from, to string) ([]*model.PlannerItem, error) {
	if from != "" {
		if err := validateCivilDate(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if err := validateCivilDate(to); err != nil {
			return nil, err
		}
	}

	items, err := s.plannerRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("プランナー項目一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}

// CreateItem はプランナー項目を作成する。
// テキストと日付は必須。sort_orderは同一日付内の最大値+1が割り当てられる。
func (s *Service) CreateItem(ctx context.Context, input CreateInput) (*model.PlannerItem, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, model.NewInvalidRequestError("テキストを指定してください")
	}
	if input.Date == "" {
		return nil, model.NewInvalidRequestError("日付を指定してください")
	}
	if err := validateCivilDate(input.Date); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = model.DefaultPlannerColor
	}

	maxOrder, err := s.plannerRepo.MaxSortOrderForDate(ctx, input.Date)
	if err != nil {
		return nil, fmt.Errorf("並び順の取得に失敗しました: %w", err)
	}

	now := time.Now()
	item := &model.PlannerItem{
		ID:        uuid.New().String(),
		Text:      text,
		Date:      input.Date,
		Color:     color,
		SortOrder: maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.plannerRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("プランナー項目の保存に失敗しました: %w", err)
	}

	return item, nil
}

// UpdateItem はプランナー項目を更新する。nilのフィールドは変更されない。
func (s *Service) UpdateItem(ctx context.Context, itemID string, input UpdateInput) (*model.PlannerItem, error) {
	item, err := s.plannerRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("プランナー項目の取得に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewPlannerItemNotFoundError(itemID)
	}

	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, model.NewInvalidRequestError("テキストを指定してください")
		}
		item.Text = text
	}
	if input.Date != nil && *input.Date != item.Date {
		if err := validateCivilDate(*input.Date); err != nil {
			return nil, err
		}
		// 日付を移動した項目は移動先の末尾に置く
		maxOrder, err := s.plannerRepo.MaxSortOrderForDate(ctx, *input.Date)
		if err != nil {
			return nil, fmt.Errorf("並び順の取得に失敗しました: %w", err)
		}
		item.Date = *input.Date
		item.SortOrder = maxOrder + 1
	}
	if input.Color != nil && *input.Color != "" {
		item.Color = *input.Color
	}
	if input.IsCompleted != nil {
		item.IsCompleted = *input.IsCompleted
	}
	if input.SortOrder != nil {
		item.SortOrder = *input.SortOrder
	}

	item.UpdatedAt = time.Now()

	if err := s.plannerRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("プランナー項目の更新に失敗しました: %w", err)
	}

	return item, nil
}

// DeleteItem はプランナー項目を削除する。
func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	item, err := s.plannerRepo.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("プランナー項目の取得に失敗しました: %w", err)
	}
	if item == nil {
		return model.NewPlannerItemNotFoundError(itemID)
	}

	if err := s.plannerRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("プランナー項目の削除に失敗しました: %w", err)
	}

	return nil
}

// validateCivilDate は暦日文字列の形式を検証する。
func validateCivilDate(date string) error {
	if _, err := time.Parse(civilDateLayout, date); err != nil {
		return model.NewInvalidRequestError(fmt.Sprintf("日付の形式が不正です: %s", date))
	}
	return nil
}
