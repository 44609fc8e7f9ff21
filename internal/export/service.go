// Package export は全データのJSONバックアップ生成を提供する。
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// PayloadVersion はバックアップ形式のバージョン。
const PayloadVersion = 1

// Service はバックアップのサービス層。
type Service struct {
	noteRepo     repository.NoteRepository
	notebookRepo repository.NotebookRepository
	tagRepo      repository.TagRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(noteRepo repository.NoteRepository, notebookRepo repository.NotebookRepository, tagRepo repository.TagRepository) *Service {
	return &Service{
		noteRepo:     noteRepo,
		notebookRepo: notebookRepo,
		tagRepo:      tagRepo,
	}
}

// BuildPayload はアーカイブ済みを含む全ノート、全ノートブック、
// 全タグを集めたバックアップペイロードを生成する。
func (s *Service) BuildPayload(ctx context.Context) (*model.ExportPayload, error) {
	active, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	archived, err := s.noteRepo.List(ctx, model.NoteFilter{Archived: true})
	if err != nil {
		return nil, fmt.Errorf("アーカイブ済みノート一覧の取得に失敗しました: %w", err)
	}

	notebooks, err := s.notebookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ノートブック一覧の取得に失敗しました: %w", err)
	}
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("タグ一覧の取得に失敗しました: %w", err)
	}

	payload := &model.ExportPayload{
		ExportedAt: time.Now(),
		Version:    PayloadVersion,
		Notebooks:  make([]model.Notebook, 0, len(notebooks)),
		Tags:       make([]model.Tag, 0, len(tags)),
		Notes:      make([]model.ExportedNote, 0, len(active)+len(archived)),
	}

	for _, nb := range notebooks {
		payload.Notebooks = append(payload.Notebooks, nb.Notebook)
	}
	for _, tag := range tags {
		payload.Tags = append(payload.Tags, tag.Tag)
	}
	for _, note := range append(active, archived...) {
		payload.Notes = append(payload.Notes, exportNote(note))
	}

	return payload, nil
}

// Filename はダウンロード時のファイル名を返す。
// "notevault-backup-YYYY-MM-DD.json"形式。
func Filename(exportedAt time.Time) string {
	return fmt.Sprintf("notevault-backup-%s.json", exportedAt.Format("2006-01-02"))
}

func exportNote(note *model.NoteWithRelations) model.ExportedNote {
	exported := model.ExportedNote{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		IsPinned:  note.IsPinned,
		Tags:      make([]string, 0, len(note.Tags)),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if note.NotebookID != "" {
		notebookID := note.NotebookID
		exported.NotebookID = &notebookID
	}
	if note.Notebook != nil {
		name := note.Notebook.Name
		exported.NotebookName = &name
	}
	for _, tag := range note.Tags {
		exported.Tags = append(exported.Tags, tag.Name)
	}
	return exported
}
