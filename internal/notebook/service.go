// Package notebook はノートブックとタグ管理のドメインロジックを提供する。
package notebook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// Service はノートブックとタグ管理のサービス層。
// タグの作成はノート保存時に暗黙的に行われるため、ここでは一覧と削除のみ扱う。
type Service struct {
	notebookRepo repository.NotebookRepository
	tagRepo      repository.TagRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(notebookRepo repository.NotebookRepository, tagRepo repository.TagRepository) *Service {
	return &Service{
		notebookRepo: notebookRepo,
		tagRepo:      tagRepo,
	}
}

// ListNotebooks は全ノートブックをノート数付きで返す。
func (s *Service) ListNotebooks(ctx context.Context) ([]*model.NotebookWithCount, error) {
	notebooks, err := s.notebookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ノートブック一覧の取得に失敗しました: %w", err)
	}
	return notebooks, nil
}

// CreateNotebook はノートブックを作成する。
// 色未指定の場合はデフォルト色、sort_orderは最大値+1が割り当てられる。
func (s *Service) CreateNotebook(ctx context.Context, name, color string) (*model.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("ノートブック名を指定してください")
	}

	if color == "" {
		color = model.DefaultNotebookColor
	}

	maxOrder, err := s.notebookRepo.MaxSortOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("並び順の取得に失敗しました: %w", err)
	}

	now := time.Now()
	notebook := &model.Notebook{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		SortOrder: maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notebookRepo.Create(ctx, notebook); err != nil {
		return nil, fmt.Errorf("ノートブックの保存に失敗しました: %w", err)
	}

	return notebook, nil
}

// UpdateNotebook はノートブックの属性を更新する。nilのフィールドは変更されない。
func (s *Service) UpdateNotebook(ctx context.Context, notebookID string, name, color *string) (*model.Notebook, error) {
	notebook, err := s.notebookRepo.FindByID(ctx, notebookID)
	if err != nil {
		return nil, fmt.Errorf("ノートブックの取得に失敗しました: %w", err)
	}
	if notebook == nil {
		return nil, model.NewNotebookNotFoundError(notebookID)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, model.NewInvalidRequestError("ノートブック名を指定してください")
		}
		notebook.Name = trimmed
	}
	if color != nil && *color != "" {
		notebook.Color = *color
	}

	notebook.UpdatedAt = time.Now()

	if err := s.notebookRepo.Update(ctx, notebook); err != nil {
		return nil, fmt.Errorf("ノートブックの更新に失敗しました: %w", err)
	}

	return notebook, nil
}

// DeleteNotebook はノートブックを削除する。
// 所属ノートは削除されず未所属になる。
func (s *Service) DeleteNotebook(ctx context.Context, notebookID string) error {
	notebook, err := s.notebookRepo.FindByID(ctx, notebookID)
	if err != nil {
		return fmt.Errorf("ノートブックの取得に失敗しました: %w", err)
	}
	if notebook == nil {
		return model.NewNotebookNotFoundError(notebookID)
	}

	if err := s.notebookRepo.Delete(ctx, notebookID); err != nil {
		return fmt.Errorf("ノートブックの削除に失敗しました: %w", err)
	}

	return nil
}

// ReorderNotebooks は与えられたID列の順序どおりに並び順を振り直す。
func (s *Service) ReorderNotebooks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return model.NewInvalidRequestError("並び替えるIDを指定してください")
	}

	if err := s.notebookRepo.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("ノートブックの並び替えに失敗しました: %w", err)
	}

	return nil
}

// ListTags は全タグを付与ノート数付きで返す。
func (s *Service) ListTags(ctx context.Context) ([]*model.TagWithCount, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("タグ一覧の取得に失敗しました: %w", err)
	}
	return tags, nil
}

// DeleteTag はタグを削除する。付与されていたノートからも外れる。
func (s *Service) DeleteTag(ctx context.Context, tagID string) error {
	tag, err := s.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		return fmt.Errorf("タグの取得に失敗しました: %w", err)
	}
	if tag == nil {
		return model.NewTagNotFoundError(tagID)
	}

	if err := s.tagRepo.Delete(ctx, tagID); err != nil {
		return fmt.Errorf("タグの削除に失敗しました: %w", err)
	}

	return nil
}
