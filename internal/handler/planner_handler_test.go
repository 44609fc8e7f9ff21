package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/planner"
)

// mockPlannerService はPlannerServiceInterfaceのモック実装。
type mockPlannerService struct {
	listItemsFn  func(ctx context.Context, from, to string) ([]*model.PlannerItem, error)
	createItemFn func(ctx context.Context, input planner.CreateInput) (*model.PlannerItem, error)
	updateItemFn func(ctx context.Context, itemID string, input planner.UpdateInput) (*model.PlannerItem, error)
	deleteItemFn func(ctx context.Context, itemID string) error
}

func (m *mockPlannerService) ListItems(ctx context.Context, from, to string) ([]*model.PlannerItem, error) {
	if m.listItemsFn != nil {
		return m.listItemsFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockPlannerService) CreateItem(ctx context.Context, input planner.CreateInput) (*model.PlannerItem, error) {
	if m.createItemFn != nil {
		return m.createItemFn(ctx, input)
	}
	return nil, nil
}

func (m *mockPlannerService) UpdateItem(ctx context.Context, itemID string, input planner.UpdateInput) (*model.PlannerItem, error) {
	if m.updateItemFn != nil {
		return m.updateItemFn(ctx, itemID, input)
	}
	return nil, nil
}

func (m *mockPlannerService) DeleteItem(ctx context.Context, itemID string) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, itemID)
	}
	return nil
}

func TestPlannerHandler_ListItems_PassesRange(t *testing.T) {
	var gotFrom, gotTo string
	svc := &mockPlannerService{
		listItemsFn: func(ctx context.Context, from, to string) ([]*model.PlannerItem, error) {
			gotFrom, gotTo = from, to
			return []*model.PlannerItem{{ID: "item-1", Text: "run", Date: "2024-03-05"}}, nil
		},
	}
	h := NewPlannerHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/planner?from=2024-03-04&to=2024-03-10", nil)
	w := httptest.NewRecorder()
	h.ListItems(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotFrom != "2024-03-04" || gotTo != "2024-03-10" {
		t.Errorf("range = [%q, %q]", gotFrom, gotTo)
	}
	var resp []plannerItemResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Text != "run" {
		t.Errorf("response = %+v", resp)
	}
}

func TestPlannerHandler_CreateItem_Success(t *testing.T) {
	var gotInput planner.CreateInput
	svc := &mockPlannerService{
		createItemFn: func(ctx context.Context, input planner.CreateInput) (*model.PlannerItem, error) {
			gotInput = input
			return &model.PlannerItem{ID: "item-1", Text: input.Text, Date: input.Date}, nil
		},
	}
	h := NewPlannerHandler(svc)

	body := bytes.NewBufferString(`{"text":"run","date":"2024-03-05","color":"#ff0000"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/planner", body)
	w := httptest.NewRecorder()
	h.CreateItem(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if gotInput.Text != "run" || gotInput.Date != "2024-03-05" || gotInput.Color != "#ff0000" {
		t.Errorf("input = %+v", gotInput)
	}
}

func TestPlannerHandler_UpdateItem_NotFound(t *testing.T) {
	svc := &mockPlannerService{
		updateItemFn: func(ctx context.Context, itemID string, input planner.UpdateInput) (*model.PlannerItem, error) {
			return nil, model.NewPlannerItemNotFoundError(itemID)
		},
	}
	h := NewPlannerHandler(svc)

	body := bytes.NewBufferString(`{"isCompleted":true}`)
	req := withChiURLParam(httptest.NewRequest(http.MethodPut, "/api/planner/missing", body), "id", "missing")
	w := httptest.NewRecorder()
	h.UpdateItem(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodePlannerItemNotFound {
		t.Errorf("code = %q, want PLANNER_ITEM_NOT_FOUND", errResp["code"])
	}
}

func TestPlannerHandler_DeleteItem_Success(t *testing.T) {
	var deletedID string
	svc := &mockPlannerService{
		deleteItemFn: func(ctx context.Context, itemID string) error {
			deletedID = itemID
			return nil
		},
	}
	h := NewPlannerHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/planner/item-1", nil), "id", "item-1")
	w := httptest.NewRecorder()
	h.DeleteItem(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if deletedID != "item-1" {
		t.Errorf("deletedID = %q, want item-1", deletedID)
	}
}
