package task

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// NoteGroup は1ノート分のタスク・見出しのまとまり。
type NoteGroup struct {
	NoteID       string
	NoteTitle    string
	NotebookName string
	Items        []Item
}

// Service はタスクビューのサービス層。
// タスクは独立したテーブルを持たず、ノート本文から都度抽出される。
type Service struct {
	noteRepo repository.NoteRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(noteRepo repository.NoteRepository) *Service {
	return &Service{noteRepo: noteRepo}
}

// ListTasks はアーカイブ外の全ノートからタスクと見出しを抽出し、
// ノート単位にまとめて返す。タスクを1件も含まないノートは除外される。
func (s *Service) ListTasks(ctx context.Context) ([]NoteGroup, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}

	groups := make([]NoteGroup, 0)
	for _, note := range notes {
		notebookName := ""
		if note.Notebook != nil {
			notebookName = note.Notebook.Name
		}
		items := ExtractItems(note.Content, note.ID, note.Title, notebookName)
		if !containsTask(items) {
			continue
		}
		groups = append(groups, NoteGroup{
			NoteID:       note.ID,
			NoteTitle:    note.Title,
			NotebookName: notebookName,
			Items:        items,
		})
	}
	return groups, nil
}

// ToggleTask はタスクIDで指定されたtaskItemのチェック状態を変更し、
// ノート本文を更新して保存する。
func (s *Service) ToggleTask(ctx context.Context, taskID string, checked bool) error {
	noteID, listIndex, itemIndex, ok := ParseTaskID(taskID)
	if !ok {
		return model.NewInvalidRequestError(fmt.Sprintf("タスクIDの形式が不正です: %s", taskID))
	}

	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if note == nil {
		return model.NewTaskNotFoundError(taskID)
	}

	updated, ok := ToggleTask(note.Content, listIndex, itemIndex, checked)
	if !ok {
		return model.NewTaskNotFoundError(taskID)
	}

	note.Content = updated
	note.UpdatedAt = time.Now()
	if err := s.noteRepo.Update(ctx, &note.Note); err != nil {
		return fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}

	return nil
}

func containsTask(items []Item) bool {
	for _, item := range items {
		if item.Task != nil {
			return true
		}
	}
	return false
}
