package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/notevault/internal/model"
)

// CalendarFeedServiceInterface はフィード管理ハンドラーが必要とするサービスインターフェース。
type CalendarFeedServiceInterface interface {
	// ListFeeds は全フィードを返す。
	ListFeeds(ctx context.Context) ([]*model.CalendarFeed, error)
	// CreateFeed はフィードを登録する。
	CreateFeed(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error)
	// UpdateFeed はフィードを更新する。
	UpdateFeed(ctx context.Context, feedID string, name, rawURL, color *string, enabled *bool) (*model.CalendarFeed, error)
	// DeleteFeed はフィードを削除する。
	DeleteFeed(ctx context.Context, feedID string) error
}

// CalendarEventServiceInterface はイベント集約ハンドラーが必要とするサービスインターフェース。
type CalendarEventServiceInterface interface {
	// ListOccurrences は暦日範囲内の展開済みイベントを返す。
	ListOccurrences(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error)
}

// CalendarHandler はカレンダーフィード管理とイベント集約のHTTPハンドラー。
type CalendarHandler struct {
	feedService  CalendarFeedServiceInterface
	eventService CalendarEventServiceInterface
}

// NewCalendarHandler はCalendarHandlerを生成する。
func NewCalendarHandler(feedService CalendarFeedServiceInterface, eventService CalendarEventServiceInterface) *CalendarHandler {
	return &CalendarHandler{
		feedService:  feedService,
		eventService: eventService,
	}
}

// createCalendarFeedRequest はフィード登録リクエストのボディ。
type createCalendarFeedRequest struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Color   string `json:"color"`
	Enabled *bool  `json:"enabled"`
}

// updateCalendarFeedRequest はフィード更新リクエストのボディ。
type updateCalendarFeedRequest struct {
	Name    *string `json:"name"`
	URL     *string `json:"url"`
	Color   *string `json:"color"`
	Enabled *bool   `json:"enabled"`
}

// calendarFeedResponse はフィードのAPIレスポンス。
type calendarFeedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Color     string    `json:"color"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// calendarOccurrenceResponse は展開済みイベントのAPIレスポンス。
type calendarOccurrenceResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	AllDay    bool   `json:"allDay"`
	FeedName  string `json:"feedName"`
	FeedColor string `json:"feedColor"`
}

// ListFeeds はフィード一覧を取得する。
// GET /api/calendar-feeds
func (h *CalendarHandler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.feedService.ListFeeds(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]calendarFeedResponse, 0, len(feeds))
	for _, feed := range feeds {
		responses = append(responses, toCalendarFeedResponse(feed))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateFeed はフィードを登録する。
// POST /api/calendar-feeds
func (h *CalendarHandler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	var req createCalendarFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	// enabled省略時は有効として登録する
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	feed, err := h.feedService.CreateFeed(r.Context(), req.Name, req.URL, req.Color, enabled)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCalendarFeedResponse(feed))
}

// UpdateFeed はフィードを更新する。
// PUT /api/calendar-feeds/:id
func (h *CalendarHandler) UpdateFeed(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "id")

	var req updateCalendarFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	feed, err := h.feedService.UpdateFeed(r.Context(), feedID, req.Name, req.URL, req.Color, req.Enabled)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCalendarFeedResponse(feed))
}

// DeleteFeed はフィードを削除する。
// DELETE /api/calendar-feeds/:id
func (h *CalendarHandler) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "id")

	if err := h.feedService.DeleteFeed(r.Context(), feedID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEvents は有効な全フィードを集約した展開済みイベント一覧を取得する。
// GET /api/calendar-events?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	occurrences, err := h.eventService.ListOccurrences(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]calendarOccurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		responses = append(responses, calendarOccurrenceResponse{
			ID:        occ.ID,
			Title:     occ.Title,
			Date:      occ.Date,
			StartTime: occ.StartTime,
			EndTime:   occ.EndTime,
			AllDay:    occ.AllDay,
			FeedName:  occ.FeedName,
			FeedColor: occ.FeedColor,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// toCalendarFeedResponse はmodel.CalendarFeedからAPIレスポンスに変換する。
func toCalendarFeedResponse(feed *model.CalendarFeed) calendarFeedResponse {
	return calendarFeedResponse{
		ID:        feed.ID,
		Name:      feed.Name,
		URL:       feed.URL,
		Color:     feed.Color,
		Enabled:   feed.Enabled,
		CreatedAt: feed.CreatedAt,
		UpdatedAt: feed.UpdatedAt,
	}
}
