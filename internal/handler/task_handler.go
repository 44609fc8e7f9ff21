package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/notevault/internal/task"
)

// TaskServiceInterface はタスクビューハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// ListTasks は全ノートから抽出したタスクと見出しをノート単位で返す。
	ListTasks(ctx context.Context) ([]task.NoteGroup, error)
	// ToggleTask はタスクのチェック状態を変更する。
	ToggleTask(ctx context.Context, taskID string, checked bool) error
}

// TaskHandler はタスクビューのHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// toggleTaskRequest はタスク状態変更リクエストのボディ。
type toggleTaskRequest struct {
	Checked bool `json:"checked"`
}

// taskItemResponse はタスクまたは見出しのAPIレスポンス。
// Typeは"task"または"heading"。
type taskItemResponse struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	Text         string `json:"text"`
	Checked      bool   `json:"checked,omitempty"`
	Level        int    `json:"level,omitempty"`
	NotebookName string `json:"notebookName,omitempty"`
}

// taskGroupResponse は1ノート分のタスクビューのAPIレスポンス。
type taskGroupResponse struct {
	NoteID       string             `json:"noteId"`
	NoteTitle    string             `json:"noteTitle"`
	NotebookName string             `json:"notebookName,omitempty"`
	Items        []taskItemResponse `json:"items"`
}

// ListTasks はアーカイブ外の全ノートからタスクビューを取得する。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]taskGroupResponse, 0, len(groups))
	for _, group := range groups {
		items := make([]taskItemResponse, 0, len(group.Items))
		for _, item := range group.Items {
			switch {
			case item.Task != nil:
				items = append(items, taskItemResponse{
					Type:         "task",
					ID:           item.Task.ID,
					Text:         item.Task.Text,
					Checked:      item.Task.Checked,
					NotebookName: item.Task.NotebookName,
				})
			case item.Heading != nil:
				items = append(items, taskItemResponse{
					Type:  "heading",
					ID:    item.Heading.ID,
					Text:  item.Heading.Text,
					Level: item.Heading.Level,
				})
			}
		}
		responses = append(responses, taskGroupResponse{
			NoteID:       group.NoteID,
			NoteTitle:    group.NoteTitle,
			NotebookName: group.NotebookName,
			Items:        items,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// ToggleTask はタスクのチェック状態を変更する。
// PUT /api/tasks/:id
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req toggleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if err := h.service.ToggleTask(r.Context(), taskID, req.Checked); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
