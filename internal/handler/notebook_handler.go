package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/notevault/internal/model"
)

// NotebookServiceInterface はノートブックハンドラーが必要とするサービスインターフェース。
// タグはノートブック管理画面から操作されるため、タグ操作も含む。
type NotebookServiceInterface interface {
	// ListNotebooks は全ノートブックをノート数付きで返す。
	ListNotebooks(ctx context.Context) ([]*model.NotebookWithCount, error)
	// CreateNotebook はノートブックを作成する。
	CreateNotebook(ctx context.Context, name, color string) (*model.Notebook, error)
	// UpdateNotebook はノートブックを更新する。
	UpdateNotebook(ctx context.Context, notebookID string, name, color *string) (*model.Notebook, error)
	// DeleteNotebook はノートブックを削除する。
	DeleteNotebook(ctx context.Context, notebookID string) error
	// ReorderNotebooks は与えられたID列どおりに並び順を振り直す。
	ReorderNotebooks(ctx context.Context, ids []string) error
	// ListTags は全タグを付与ノート数付きで返す。
	ListTags(ctx context.Context) ([]*model.TagWithCount, error)
	// DeleteTag はタグを削除する。
	DeleteTag(ctx context.Context, tagID string) error
}

// NotebookHandler はノートブックとタグ管理のHTTPハンドラー。
type NotebookHandler struct {
	service NotebookServiceInterface
}

// NewNotebookHandler はNotebookHandlerを生成する。
func NewNotebookHandler(service NotebookServiceInterface) *NotebookHandler {
	return &NotebookHandler{service: service}
}

// createNotebookRequest はノートブック作成リクエストのボディ。
type createNotebookRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// updateNotebookRequest はノートブック更新リクエストのボディ。
type updateNotebookRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// reorderNotebooksRequest は並び替えリクエストのボディ。
type reorderNotebooksRequest struct {
	IDs []string `json:"ids"`
}

// notebookResponse はノートブックのAPIレスポンス。
type notebookResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
	NoteCount int       `json:"noteCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// tagWithCountResponse は付与ノート数付きタグのAPIレスポンス。
type tagWithCountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NoteCount int    `json:"noteCount"`
}

// ListNotebooks はノートブック一覧を取得する。
// GET /api/notebooks
func (h *NotebookHandler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.service.ListNotebooks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]notebookResponse, 0, len(notebooks))
	for _, nb := range notebooks {
		responses = append(responses, notebookResponse{
			ID:        nb.ID,
			Name:      nb.Name,
			Color:     nb.Color,
			SortOrder: nb.SortOrder,
			NoteCount: nb.NoteCount,
			CreatedAt: nb.CreatedAt,
			UpdatedAt: nb.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateNotebook はノートブックを作成する。
// POST /api/notebooks
func (h *NotebookHandler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req createNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	notebook, err := h.service.CreateNotebook(r.Context(), req.Name, req.Color)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNotebookResponse(notebook))
}

// UpdateNotebook はノートブックを更新する。
// PUT /api/notebooks/:id
func (h *NotebookHandler) UpdateNotebook(w http.ResponseWriter, r *http.Request) {
	notebookID := chi.URLParam(r, "id")

	var req updateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	notebook, err := h.service.UpdateNotebook(r.Context(), notebookID, req.Name, req.Color)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotebookResponse(notebook))
}

// DeleteNotebook はノートブックを削除する。所属ノートは未所属になる。
// DELETE /api/notebooks/:id
func (h *NotebookHandler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	notebookID := chi.URLParam(r, "id")

	if err := h.service.DeleteNotebook(r.Context(), notebookID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderNotebooks はノートブックの並び順を変更する。
// PATCH /api/notebooks/reorder
func (h *NotebookHandler) ReorderNotebooks(w http.ResponseWriter, r *http.Request) {
	var req reorderNotebooksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if err := h.service.ReorderNotebooks(r.Context(), req.IDs); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTags はタグ一覧を取得する。
// GET /api/tags
func (h *NotebookHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]tagWithCountResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tagWithCountResponse{
			ID:        tag.ID,
			Name:      tag.Name,
			NoteCount: tag.NoteCount,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// DeleteTag はタグを削除する。付与されていたノートからも外れる。
// DELETE /api/tags/:id
func (h *NotebookHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "id")

	if err := h.service.DeleteTag(r.Context(), tagID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toNotebookResponse はmodel.NotebookからAPIレスポンスに変換する。
func toNotebookResponse(nb *model.Notebook) notebookResponse {
	return notebookResponse{
		ID:        nb.ID,
		Name:      nb.Name,
		Color:     nb.Color,
		SortOrder: nb.SortOrder,
		CreatedAt: nb.CreatedAt,
		UpdatedAt: nb.UpdatedAt,
	}
}
