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

// --- モック定義 ---

// mockCalendarFeedService はCalendarFeedServiceInterfaceのモック実装。
type mockCalendarFeedService struct {
	listFeedsFn  func(ctx context.Context) ([]*model.CalendarFeed, error)
	createFeedFn func(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error)
	updateFeedFn func(ctx context.Context, feedID string, name, rawURL, color *string, enabled *bool) (*model.CalendarFeed, error)
	deleteFeedFn func(ctx context.Context, feedID string) error
}

func (m *mockCalendarFeedService) ListFeeds(ctx context.Context) ([]*model.CalendarFeed, error) {
	if m.listFeedsFn != nil {
		return m.listFeedsFn(ctx)
	}
	return nil, nil
}

func (m *mockCalendarFeedService) CreateFeed(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error) {
	if m.createFeedFn != nil {
		return m.createFeedFn(ctx, name, rawURL, color, enabled)
	}
	return nil, nil
}

func (m *mockCalendarFeedService) UpdateFeed(ctx context.Context, feedID string, name, rawURL, color *string, enabled *bool) (*model.CalendarFeed, error) {
	if m.updateFeedFn != nil {
		return m.updateFeedFn(ctx, feedID, name, rawURL, color, enabled)
	}
	return nil, nil
}

func (m *mockCalendarFeedService) DeleteFeed(ctx context.Context, feedID string) error {
	if m.deleteFeedFn != nil {
		return m.deleteFeedFn(ctx, feedID)
	}
	return nil
}

// mockCalendarEventService はCalendarEventServiceInterfaceのモック実装。
type mockCalendarEventService struct {
	listOccurrencesFn func(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error)
}

func (m *mockCalendarEventService) ListOccurrences(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error) {
	if m.listOccurrencesFn != nil {
		return m.listOccurrencesFn(ctx, from, to)
	}
	return nil, nil
}

// --- POST /api/calendar-feeds テスト ---

func TestCalendarHandler_CreateFeed_EnabledDefaultsTrue(t *testing.T) {
	var gotEnabled bool
	svc := &mockCalendarFeedService{
		createFeedFn: func(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error) {
			gotEnabled = enabled
			return &model.CalendarFeed{ID: "feed-1", Name: name, URL: rawURL, Enabled: enabled}, nil
		},
	}
	h := NewCalendarHandler(svc, &mockCalendarEventService{})

	body := bytes.NewBufferString(`{"name":"Holidays","url":"https://example.com/cal.ics"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/calendar-feeds", body)
	w := httptest.NewRecorder()
	h.CreateFeed(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if !gotEnabled {
		t.Error("enabled = false, want true when omitted")
	}
}

func TestCalendarHandler_CreateFeed_ExplicitDisabled(t *testing.T) {
	var gotEnabled bool
	svc := &mockCalendarFeedService{
		createFeedFn: func(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error) {
			gotEnabled = enabled
			return &model.CalendarFeed{ID: "feed-1"}, nil
		},
	}
	h := NewCalendarHandler(svc, &mockCalendarEventService{})

	body := bytes.NewBufferString(`{"name":"Holidays","url":"https://example.com/cal.ics","enabled":false}`)
	req := httptest.NewRequest(http.MethodPost, "/api/calendar-feeds", body)
	w := httptest.NewRecorder()
	h.CreateFeed(w, req)

	if gotEnabled {
		t.Error("enabled = true, want false")
	}
}

func TestCalendarHandler_CreateFeed_SSRFBlocked(t *testing.T) {
	svc := &mockCalendarFeedService{
		createFeedFn: func(ctx context.Context, name, rawURL, color string, enabled bool) (*model.CalendarFeed, error) {
			return nil, model.NewSSRFBlockedError()
		},
	}
	h := NewCalendarHandler(svc, &mockCalendarEventService{})

	body := bytes.NewBufferString(`{"name":"internal","url":"http://169.254.169.254/"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/calendar-feeds", body)
	w := httptest.NewRecorder()
	h.CreateFeed(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeSSRFBlocked {
		t.Errorf("code = %q, want SSRF_BLOCKED", errResp["code"])
	}
}

// --- GET /api/calendar-events テスト ---

func TestCalendarHandler_ListEvents_Success(t *testing.T) {
	var gotFrom, gotTo string
	svc := &mockCalendarEventService{
		listOccurrencesFn: func(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error) {
			gotFrom, gotTo = from, to
			return []model.CalendarOccurrence{
				{ID: "uid-1_2024-03-05", Title: "Standup", Date: "2024-03-05", StartTime: "9:00 AM", EndTime: "9:15 AM", FeedName: "Work", FeedColor: "#3b82f6"},
				{ID: "uid-2_2024-03-05", Title: "Holiday", Date: "2024-03-05", AllDay: true, FeedName: "Holidays", FeedColor: "#ef4444"},
			}, nil
		},
	}
	h := NewCalendarHandler(&mockCalendarFeedService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar-events?from=2024-03-04&to=2024-03-10", nil)
	w := httptest.NewRecorder()
	h.ListEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotFrom != "2024-03-04" || gotTo != "2024-03-10" {
		t.Errorf("range = [%q, %q]", gotFrom, gotTo)
	}

	var resp []calendarOccurrenceResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("occurrence count = %d, want 2", len(resp))
	}
	if resp[0].StartTime != "9:00 AM" || resp[0].AllDay {
		t.Errorf("resp[0] = %+v", resp[0])
	}
	if !resp[1].AllDay || resp[1].StartTime != "" {
		t.Errorf("resp[1] = %+v, want all-day without times", resp[1])
	}
}

func TestCalendarHandler_ListEvents_MissingRange(t *testing.T) {
	svc := &mockCalendarEventService{
		listOccurrencesFn: func(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error) {
			return nil, model.NewInvalidRequestError("fromとtoの両方を指定してください")
		},
	}
	h := NewCalendarHandler(&mockCalendarFeedService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar-events", nil)
	w := httptest.NewRecorder()
	h.ListEvents(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// --- PUT /api/calendar-feeds/:id テスト ---

func TestCalendarHandler_UpdateFeed_NotFound(t *testing.T) {
	svc := &mockCalendarFeedService{
		updateFeedFn: func(ctx context.Context, feedID string, name, rawURL, color *string, enabled *bool) (*model.CalendarFeed, error) {
			return nil, model.NewCalendarFeedNotFoundError(feedID)
		},
	}
	h := NewCalendarHandler(svc, &mockCalendarEventService{})

	body := bytes.NewBufferString(`{"enabled":false}`)
	req := withChiURLParam(httptest.NewRequest(http.MethodPut, "/api/calendar-feeds/missing", body), "id", "missing")
	w := httptest.NewRecorder()
	h.UpdateFeed(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
