package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hitoshi/notevault/internal/model"
)

// mockSSRFValidator はSSRFValidatorのテスト用モック。
type mockSSRFValidator struct {
	validateErr error
}

func (m *mockSSRFValidator) ValidateURL(_ string) error {
	return m.validateErr
}

func (m *mockSSRFValidator) NewSafeClient(timeout time.Duration, _ int64) *http.Client {
	return &http.Client{Timeout: timeout}
}

func TestCreateFeed_Success(t *testing.T) {
	repo := &mockCalendarFeedRepository{}
	svc := NewFeedService(repo, &mockSSRFValidator{})

	feed, err := svc.CreateFeed(context.Background(), "Work", "https://example.com/work.ics", "#ff0000", true)
	if err != nil {
		t.Fatalf("CreateFeed() error = %v", err)
	}

	if feed.ID == "" {
		t.Error("expected generated ID")
	}
	if feed.Name != "Work" {
		t.Errorf("Name = %q, want %q", feed.Name, "Work")
	}
	if feed.Color != "#ff0000" {
		t.Errorf("Color = %q, want %q", feed.Color, "#ff0000")
	}
	if !feed.Enabled {
		t.Error("Enabled = false, want true")
	}
	if len(repo.createCalls) != 1 {
		t.Errorf("create calls = %d, want 1", len(repo.createCalls))
	}
}

func TestCreateFeed_DefaultsColor(t *testing.T) {
	repo := &mockCalendarFeedRepository{}
	svc := NewFeedService(repo, &mockSSRFValidator{})

	feed, err := svc.CreateFeed(context.Background(), "Work", "https://example.com/work.ics", "", true)
	if err != nil {
		t.Fatalf("CreateFeed() error = %v", err)
	}
	if feed.Color != model.DefaultCalendarFeedColor {
		t.Errorf("Color = %q, want %q", feed.Color, model.DefaultCalendarFeedColor)
	}
}

func TestCreateFeed_EmptyNameIsRejected(t *testing.T) {
	svc := NewFeedService(&mockCalendarFeedRepository{}, &mockSSRFValidator{})

	_, err := svc.CreateFeed(context.Background(), "   ", "https://example.com/work.ics", "", true)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestCreateFeed_InvalidURLIsRejected(t *testing.T) {
	svc := NewFeedService(&mockCalendarFeedRepository{}, &mockSSRFValidator{})

	tests := []struct {
		name string
		url  string
	}{
		{"not a url", "not a url"},
		{"unsupported scheme", "ftp://example.com/cal.ics"},
		{"missing host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFeed(context.Background(), "Work", tt.url, "", true)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidURL {
				t.Fatalf("expected INVALID_URL, got %v", err)
			}
		})
	}
}

func TestCreateFeed_SSRFBlockedURLIsRejected(t *testing.T) {
	guard := &mockSSRFValidator{validateErr: errors.New("private ip")}
	svc := NewFeedService(&mockCalendarFeedRepository{}, guard)

	_, err := svc.CreateFeed(context.Background(), "Internal", "https://192.168.1.1/cal.ics", "", true)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSSRFBlocked {
		t.Fatalf("expected SSRF_BLOCKED, got %v", err)
	}
}

func TestUpdateFeed_NotFound(t *testing.T) {
	svc := NewFeedService(&mockCalendarFeedRepository{}, &mockSSRFValidator{})

	name := "New name"
	_, err := svc.UpdateFeed(context.Background(), "missing-id", &name, nil, nil, nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCalendarFeedNotFound {
		t.Fatalf("expected CALENDAR_FEED_NOT_FOUND, got %v", err)
	}
}

func TestUpdateFeed_PartialUpdate(t *testing.T) {
	existing := &model.CalendarFeed{
		ID:      "feed-1",
		Name:    "Old name",
		URL:     "https://example.com/old.ics",
		Color:   "#111111",
		Enabled: true,
	}
	repo := &mockCalendarFeedRepository{feeds: []*model.CalendarFeed{existing}}
	svc := NewFeedService(repo, &mockSSRFValidator{})

	enabled := false
	updated, err := svc.UpdateFeed(context.Background(), "feed-1", nil, nil, nil, &enabled)
	if err != nil {
		t.Fatalf("UpdateFeed() error = %v", err)
	}

	if updated.Enabled {
		t.Error("Enabled = true, want false")
	}
	// 未指定のフィールドは変更されない
	if updated.Name != "Old name" {
		t.Errorf("Name = %q, want %q", updated.Name, "Old name")
	}
	if updated.URL != "https://example.com/old.ics" {
		t.Errorf("URL = %q, want unchanged", updated.URL)
	}
}

func TestUpdateFeed_URLChangeIsRevalidated(t *testing.T) {
	existing := &model.CalendarFeed{ID: "feed-1", Name: "Work", URL: "https://example.com/old.ics", Enabled: true}
	repo := &mockCalendarFeedRepository{feeds: []*model.CalendarFeed{existing}}
	guard := &mockSSRFValidator{validateErr: errors.New("private ip")}
	svc := NewFeedService(repo, guard)

	newURL := "https://10.0.0.1/cal.ics"
	_, err := svc.UpdateFeed(context.Background(), "feed-1", nil, &newURL, nil, nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSSRFBlocked {
		t.Fatalf("expected SSRF_BLOCKED, got %v", err)
	}
}

func TestDeleteFeed_NotFound(t *testing.T) {
	svc := NewFeedService(&mockCalendarFeedRepository{}, &mockSSRFValidator{})

	err := svc.DeleteFeed(context.Background(), "missing-id")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCalendarFeedNotFound {
		t.Fatalf("expected CALENDAR_FEED_NOT_FOUND, got %v", err)
	}
}

func TestDeleteFeed_Success(t *testing.T) {
	existing := &model.CalendarFeed{ID: "feed-1", Name: "Work", URL: "https://example.com/work.ics", Enabled: true}
	deleted := ""
	repo := &mockCalendarFeedRepository{
		feeds: []*model.CalendarFeed{existing},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewFeedService(repo, &mockSSRFValidator{})

	if err := svc.DeleteFeed(context.Background(), "feed-1"); err != nil {
		t.Fatalf("DeleteFeed() error = %v", err)
	}
	if deleted != "feed-1" {
		t.Errorf("deleted id = %q, want %q", deleted, "feed-1")
	}
}
