package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/note"
)

// NoteServiceInterface はノートハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	// ListNotes はフィルタ条件に一致するノートを返す。
	ListNotes(ctx context.Context, filter model.NoteFilter) ([]*model.NoteWithRelations, error)
	// GetNote はノートを取得する。
	GetNote(ctx context.Context, noteID string) (*model.NoteWithRelations, error)
	// CreateNote はノートを作成する。
	CreateNote(ctx context.Context, input note.CreateInput) (*model.NoteWithRelations, error)
	// UpdateNote はノートを更新する。
	UpdateNote(ctx context.Context, noteID string, input note.UpdateInput) (*model.NoteWithRelations, error)
	// DeleteNote はノートを削除する。
	DeleteNote(ctx context.Context, noteID string) error
}

// NoteHandler はノート管理のHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// createNoteRequest はノート作成リクエストのボディ。
type createNoteRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	NotebookID string   `json:"notebookId"`
	Tags       []string `json:"tags"`
	IsPinned   bool     `json:"isPinned"`
}

// updateNoteRequest はノート更新リクエストのボディ。省略されたフィールドは変更されない。
type updateNoteRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	NotebookID *string  `json:"notebookId"`
	Tags       []string `json:"tags"`
	IsPinned   *bool    `json:"isPinned"`
	IsArchived *bool    `json:"isArchived"`
	SortOrder  *int     `json:"sortOrder"`
}

// notebookRefResponse はノートに埋め込まれるノートブック参照。
type notebookRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// tagResponse はタグのAPIレスポンス。
type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// noteResponse はノートのAPIレスポンス。
type noteResponse struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	IsPinned   bool                 `json:"isPinned"`
	IsArchived bool                 `json:"isArchived"`
	SortOrder  int                  `json:"sortOrder"`
	NotebookID *string              `json:"notebookId"`
	Notebook   *notebookRefResponse `json:"notebook"`
	Tags       []tagResponse        `json:"tags"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// ListNotes はノート一覧を取得する。
// GET /api/notes?notebookId=&tagId=&pinned=&archive=&search=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.NoteFilter{
		NotebookID: query.Get("notebookId"),
		TagID:      query.Get("tagId"),
		PinnedOnly: query.Get("pinned") == "true",
		Archived:   query.Get("archive") == "true",
		Search:     query.Get("search"),
	}

	notes, err := h.service.ListNotes(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetNote はノート詳細を取得する。
// GET /api/notes/:id
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	n, err := h.service.GetNote(r.Context(), noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// CreateNote はノートを作成する。
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	n, err := h.service.CreateNote(r.Context(), note.CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		NotebookID: req.NotebookID,
		Tags:       req.Tags,
		IsPinned:   req.IsPinned,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

// UpdateNote はノートを更新する。
// PUT /api/notes/:id
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	n, err := h.service.UpdateNote(r.Context(), noteID, note.UpdateInput{
		Title:      req.Title,
		Content:    req.Content,
		NotebookID: req.NotebookID,
		Tags:       req.Tags,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// DeleteNote はノートを削除する。
// DELETE /api/notes/:id
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	if err := h.service.DeleteNote(r.Context(), noteID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toNoteResponse はmodel.NoteWithRelationsからAPIレスポンスに変換する。
func toNoteResponse(n *model.NoteWithRelations) noteResponse {
	resp := noteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		IsPinned:   n.IsPinned,
		IsArchived: n.IsArchived,
		SortOrder:  n.SortOrder,
		Tags:       make([]tagResponse, 0, len(n.Tags)),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if n.NotebookID != "" {
		notebookID := n.NotebookID
		resp.NotebookID = &notebookID
	}
	if n.Notebook != nil {
		resp.Notebook = &notebookRefResponse{
			ID:    n.Notebook.ID,
			Name:  n.Notebook.Name,
			Color: n.Notebook.Color,
		}
	}
	for _, tag := range n.Tags {
		resp.Tags = append(resp.Tags, tagResponse{ID: tag.ID, Name: tag.Name})
	}
	return resp
}
