package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/notevault/internal/model"
)

// mockNotebookService はNotebookServiceInterfaceのモック実装。
type mockNotebookService struct {
	listNotebooksFn    func(ctx context.Context) ([]*model.NotebookWithCount, error)
	createNotebookFn   func(ctx context.Context, name, color string) (*model.Notebook, error)
	updateNotebookFn   func(ctx context.Context, notebookID string, name, color *string) (*model.Notebook, error)
	deleteNotebookFn   func(ctx context.Context, notebookID string) error
	reorderNotebooksFn func(ctx context.Context, ids []string) error
	listTagsFn         func(ctx context.Context) ([]*model.TagWithCount, error)
	deleteTagFn        func(ctx context.Context, tagID string) error
}

func (m *mockNotebookService) ListNotebooks(ctx context.Context) ([]*model.NotebookWithCount, error) {
	if m.listNotebooksFn != nil {
		return m.listNotebooksFn(ctx)
	}
	return nil, nil
}

func (m *mockNotebookService) CreateNotebook(ctx context.Context, name, color string) (*model.Notebook, error) {
	if m.createNotebookFn != nil {
		return m.createNotebookFn(ctx, name, color)
	}
	return nil, nil
}

func (m *mockNotebookService) UpdateNotebook(ctx context.Context, notebookID string, name, color *string) (*model.Notebook, error) {
	if m.updateNotebookFn != nil {
		return m.updateNotebookFn(ctx, notebookID, name, color)
	}
	return nil, nil
}

func (m *mockNotebookService) DeleteNotebook(ctx context.Context, notebookID string) error {
	if m.deleteNotebookFn != nil {
		return m.deleteNotebookFn(ctx, notebookID)
	}
	return nil
}

func (m *mockNotebookService) ReorderNotebooks(ctx context.Context, ids []string) error {
	if m.reorderNotebooksFn != nil {
		return m.reorderNotebooksFn(ctx, ids)
	}
	return nil
}

func (m *mockNotebookService) ListTags(ctx context.Context) ([]*model.TagWithCount, error) {
	if m.listTagsFn != nil {
		return m.listTagsFn(ctx)
	}
	return nil, nil
}

func (m *mockNotebookService) DeleteTag(ctx context.Context, tagID string) error {
	if m.deleteTagFn != nil {
		return m.deleteTagFn(ctx, tagID)
	}
	return nil
}

func TestNotebookHandler_ListNotebooks_IncludesNoteCount(t *testing.T) {
	svc := &mockNotebookService{
		listNotebooksFn: func(ctx context.Context) ([]*model.NotebookWithCount, error) {
			return []*model.NotebookWithCount{
				{Notebook: model.Notebook{ID: "nb-1", Name: "Work", Color: "#6366f1"}, NoteCount: 3},
			}, nil
		},
	}
	h := NewNotebookHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/notebooks", nil)
	w := httptest.NewRecorder()
	h.ListNotebooks(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp []notebookResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].NoteCount != 3 {
		t.Errorf("response = %+v", resp)
	}
}

func TestNotebookHandler_CreateNotebook_EmptyName(t *testing.T) {
	svc := &mockNotebookService{
		createNotebookFn: func(ctx context.Context, name, color string) (*model.Notebook, error) {
			return nil, model.NewInvalidRequestError("名前を指定してください")
		},
	}
	h := NewNotebookHandler(svc)

	body := bytes.NewBufferString(`{"name":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/notebooks", body)
	w := httptest.NewRecorder()
	h.CreateNotebook(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNotebookHandler_ReorderNotebooks_PassesIDs(t *testing.T) {
	var gotIDs []string
	svc := &mockNotebookService{
		reorderNotebooksFn: func(ctx context.Context, ids []string) error {
			gotIDs = ids
			return nil
		},
	}
	h := NewNotebookHandler(svc)

	body := bytes.NewBufferString(`{"ids":["nb-2","nb-1","nb-3"]}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/notebooks/reorder", body)
	w := httptest.NewRecorder()
	h.ReorderNotebooks(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(gotIDs) != 3 || gotIDs[0] != "nb-2" {
		t.Errorf("ids = %v", gotIDs)
	}
}

func TestNotebookHandler_DeleteTag_NotFound(t *testing.T) {
	svc := &mockNotebookService{
		deleteTagFn: func(ctx context.Context, tagID string) error {
			return model.NewTagNotFoundError(tagID)
		},
	}
	h := NewNotebookHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/tags/missing", nil), "id", "missing")
	w := httptest.NewRecorder()
	h.DeleteTag(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeTagNotFound {
		t.Errorf("code = %q, want TAG_NOT_FOUND", errResp["code"])
	}
}
