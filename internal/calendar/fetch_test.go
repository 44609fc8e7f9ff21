package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// recordingMetrics はメトリクス呼び出しを記録するテスト用実装。
type recordingMetrics struct {
	fetchSuccess   int
	fetchFail      int
	parseFail      int
	upstreamCodes  []int
	latencyRecords int
	occurrences    int
}

func (m *recordingMetrics) RecordFetchSuccess(feedID string)                { m.fetchSuccess++ }
func (m *recordingMetrics) RecordFetchFailure(feedID string, reason string) { m.fetchFail++ }
func (m *recordingMetrics) RecordParseFailure(feedID string)                { m.parseFail++ }
func (m *recordingMetrics) RecordUpstreamStatus(statusCode int) {
	m.upstreamCodes = append(m.upstreamCodes, statusCode)
}
func (m *recordingMetrics) RecordFetchLatency(duration time.Duration) { m.latencyRecords++ }
func (m *recordingMetrics) RecordOccurrencesExpanded(count int)       { m.occurrences += count }

func TestHTTPFeedFetcher_FetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(strings.ReplaceAll(sampleICS, "\n", "\r\n")))
	}))
	defer server.Close()

	m := &recordingMetrics{}
	fetcher := NewHTTPFeedFetcher(&mockSSRFValidator{}, m, 10*time.Second, 5*1024*1024)

	components, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(components) != 3 {
		t.Errorf("expected 3 components, got %d", len(components))
	}

	if len(m.upstreamCodes) != 1 || m.upstreamCodes[0] != http.StatusOK {
		t.Errorf("upstream codes = %v, want [200]", m.upstreamCodes)
	}
	if m.latencyRecords != 1 {
		t.Errorf("latency records = %d, want 1", m.latencyRecords)
	}
}

func TestHTTPFeedFetcher_SSRFValidationFailure(t *testing.T) {
	guard := &mockSSRFValidator{validateErr: errors.New("blocked")}
	fetcher := NewHTTPFeedFetcher(guard, &recordingMetrics{}, 10*time.Second, 5*1024*1024)

	_, err := fetcher.Fetch(context.Background(), "https://10.0.0.1/cal.ics")
	if err == nil {
		t.Fatal("expected error for blocked URL")
	}
}

func TestHTTPFeedFetcher_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	m := &recordingMetrics{}
	fetcher := NewHTTPFeedFetcher(&mockSSRFValidator{}, m, 10*time.Second, 5*1024*1024)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if len(m.upstreamCodes) != 1 || m.upstreamCodes[0] != http.StatusNotFound {
		t.Errorf("upstream codes = %v, want [404]", m.upstreamCodes)
	}
}

func TestHTTPFeedFetcher_MalformedBodyRecordsParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a calendar"))
	}))
	defer server.Close()

	m := &recordingMetrics{}
	fetcher := NewHTTPFeedFetcher(&mockSSRFValidator{}, m, 10*time.Second, 5*1024*1024)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	if m.parseFail != 1 {
		t.Errorf("parse failures = %d, want 1", m.parseFail)
	}
}

func TestHTTPFeedFetcher_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(strings.ReplaceAll(sampleICS, "\n", "\r\n")))
	}))
	defer server.Close()

	fetcher := NewHTTPFeedFetcher(&mockSSRFValidator{}, &recordingMetrics{}, 10*time.Second, 5*1024*1024)

	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(gotUA, "NoteVault") {
		t.Errorf("User-Agent = %q, want to contain NoteVault", gotUA)
	}
}
