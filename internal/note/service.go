// Package note はノート管理のドメインロジックを提供する。
package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
	"github.com/hitoshi/notevault/internal/security"
)

// defaultTitle はタイトル未指定のノートに使う表示名。
const defaultTitle = "Untitled"

// CreateInput はノート作成の入力。
type CreateInput struct {
	Title      string
	Content    string
	NotebookID string
	Tags       []string
	IsPinned   bool
}

// UpdateInput はノート更新の入力。nilのフィールドは変更されない。
type UpdateInput struct {
	Title      *string
	Content    *string
	NotebookID *string
	Tags       []string
	IsPinned   *bool
	IsArchived *bool
	SortOrder  *int
}

// Service はノート管理のサービス層。
// コンテンツのサニタイズとノートブック・タグの整合性を統括する。
type Service struct {
	noteRepo     repository.NoteRepository
	notebookRepo repository.NotebookRepository
	sanitizer    security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(noteRepo repository.NoteRepository, notebookRepo repository.NotebookRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		noteRepo:     noteRepo,
		notebookRepo: notebookRepo,
		sanitizer:    sanitizer,
	}
}

// ListNotes はフィルタ条件に一致するノートを返す。
func (s *Service) ListNotes(ctx context.Context, filter model.NoteFilter) ([]*model.NoteWithRelations, error) {
	notes, err := s.noteRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	return notes, nil
}

// GetNote は指定IDのノートを取得する。
func (s *Service) GetNote(ctx context.Context, noteID string) (*model.NoteWithRelations, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// CreateNote はノートを作成する。
// タイトル未指定はUntitled、sort_orderは最大値+1が割り当てられる。
func (s *Service) CreateNote(ctx context.Context, input CreateInput) (*model.NoteWithRelations, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = defaultTitle
	}

	if input.NotebookID != "" {
		if err := s.validateNotebook(ctx, input.NotebookID); err != nil {
			return nil, err
		}
	}

	maxOrder, err := s.noteRepo.MaxSortOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("並び順の取得に失敗しました: %w", err)
	}

	now := time.Now()
	note := &model.Note{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    s.sanitizer.SanitizeNoteContent(input.Content),
		IsPinned:   input.IsPinned,
		SortOrder:  maxOrder + 1,
		NotebookID: input.NotebookID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("ノートの保存に失敗しました: %w", err)
	}

	if len(input.Tags) > 0 {
		if err := s.noteRepo.ReplaceTags(ctx, note.ID, normalizeTagNames(input.Tags)); err != nil {
			return nil, fmt.Errorf("タグの保存に失敗しました: %w", err)
		}
	}

	return s.GetNote(ctx, note.ID)
}

// UpdateNote はノートを更新する。nilのフィールドは変更されない。
// Tagsがnil以外の場合、タグ集合全体が置き換えられる。
func (s *Service) UpdateNote(ctx context.Context, noteID string, input UpdateInput) (*model.NoteWithRelations, error) {
	existing, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}

	note := existing.Note

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			title = defaultTitle
		}
		note.Title = title
	}
	if input.Content != nil {
		note.Content = s.sanitizer.SanitizeNoteContent(*input.Content)
	}
	if input.NotebookID != nil {
		if *input.NotebookID != "" {
			if err := s.validateNotebook(ctx, *input.NotebookID); err != nil {
				return nil, err
			}
		}
		note.NotebookID = *input.NotebookID
	}
	if input.IsPinned != nil {
		note.IsPinned = *input.IsPinned
	}
	if input.IsArchived != nil {
		note.IsArchived = *input.IsArchived
	}
	if input.SortOrder != nil {
		note.SortOrder = *input.SortOrder
	}

	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(ctx, &note); err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}

	if input.Tags != nil {
		if err := s.noteRepo.ReplaceTags(ctx, noteID, normalizeTagNames(input.Tags)); err != nil {
			return nil, fmt.Errorf("タグの保存に失敗しました: %w", err)
		}
	}

	return s.GetNote(ctx, noteID)
}

// DeleteNote はノートを削除する。
func (s *Service) DeleteNote(ctx context.Context, noteID string) error {
	existing, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewNoteNotFoundError(noteID)
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}

	return nil
}

// validateNotebook は指定ノートブックの存在を検証する。
func (s *Service) validateNotebook(ctx context.Context, notebookID string) error {
	notebook, err := s.notebookRepo.FindByID(ctx, notebookID)
	if err != nil {
		return fmt.Errorf("ノートブックの取得に失敗しました: %w", err)
	}
	if notebook == nil {
		return model.NewNotebookNotFoundError(notebookID)
	}
	return nil
}

// normalizeTagNames はタグ名の前後空白を除去し、空要素と重複を取り除く。
func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	return normalized
}
