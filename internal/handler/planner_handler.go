package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/planner"
)

// PlannerServiceInterface はプランナーハンドラーが必要とするサービスインターフェース。
type PlannerServiceInterface interface {
	// ListItems は暦日範囲内のプランナー項目を返す。
	ListItems(ctx context.Context, from, to string) ([]*model.PlannerItem, error)
	// CreateItem はプランナー項目を作成する。
	CreateItem(ctx context.Context, input planner.CreateInput) (*model.PlannerItem, error)
	// UpdateItem はプランナー項目を更新する。
	UpdateItem(ctx context.Context, itemID string, input planner.UpdateInput) (*model.PlannerItem, error)
	// DeleteItem はプランナー項目を削除する。
	DeleteItem(ctx context.Context, itemID string) error
}

// PlannerHandler は週間プランナーのHTTPハンドラー。
type PlannerHandler struct {
	service PlannerServiceInterface
}

// NewPlannerHandler はPlannerHandlerを生成する。
func NewPlannerHandler(service PlannerServiceInterface) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// createPlannerItemRequest はプランナー項目作成リクエストのボディ。
type createPlannerItemRequest struct {
	Text  string `json:"text"`
	Date  string `json:"date"`
	Color string `json:"color"`
}

// updatePlannerItemRequest はプランナー項目更新リクエストのボディ。
type updatePlannerItemRequest struct {
	Text        *string `json:"text"`
	Date        *string `json:"date"`
	Color       *string `json:"color"`
	IsCompleted *bool   `json:"isCompleted"`
	SortOrder   *int    `json:"sortOrder"`
}

// plannerItemResponse はプランナー項目のAPIレスポンス。
type plannerItemResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Date        string    `json:"date"`
	Color       string    `json:"color"`
	IsCompleted bool      `json:"isCompleted"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListItems はプランナー項目一覧を取得する。
// GET /api/planner?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *PlannerHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	items, err := h.service.ListItems(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]plannerItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toPlannerItemResponse(item))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateItem はプランナー項目を作成する。
// POST /api/planner
func (h *PlannerHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createPlannerItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	item, err := h.service.CreateItem(r.Context(), planner.CreateInput{
		Text:  req.Text,
		Date:  req.Date,
		Color: req.Color,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlannerItemResponse(item))
}

// UpdateItem はプランナー項目を更新する。
// PUT /api/planner/:id
func (h *PlannerHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	var req updatePlannerItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), itemID, planner.UpdateInput{
		Text:        req.Text,
		Date:        req.Date,
		Color:       req.Color,
		IsCompleted: req.IsCompleted,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlannerItemResponse(item))
}

// DeleteItem はプランナー項目を削除する。
// DELETE /api/planner/:id
func (h *PlannerHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toPlannerItemResponse はmodel.PlannerItemからAPIレスポンスに変換する。
func toPlannerItemResponse(item *model.PlannerItem) plannerItemResponse {
	return plannerItemResponse{
		ID:          item.ID,
		Text:        item.Text,
		Date:        item.Date,
		Color:       item.Color,
		IsCompleted: item.IsCompleted,
		SortOrder:   item.SortOrder,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
