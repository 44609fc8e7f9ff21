package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/notevault/internal/metrics"
)

// FeedFetcher はカレンダーフィードの取得とパースのインターフェース。
// 集約サービスからフィードごとに呼び出される。
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (map[string]RawCalendarComponent, error)
}

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// HTTPFeedFetcher はHTTP経由でiCalendarフィードを取得しパースする。
// SSRF検証、タイムアウト、レスポンスサイズ上限を適用する。
type HTTPFeedFetcher struct {
	ssrfGuard   SSRFValidator
	metrics     metrics.MetricsCollector
	timeout     time.Duration
	maxBodySize int64
}

// NewHTTPFeedFetcher はHTTPFeedFetcherの新しいインスタンスを生成する。
func NewHTTPFeedFetcher(ssrfGuard SSRFValidator, collector metrics.MetricsCollector, timeout time.Duration, maxBodySize int64) *HTTPFeedFetcher {
	return &HTTPFeedFetcher{
		ssrfGuard:   ssrfGuard,
		metrics:     collector,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch はフィードURLからiCalendarデータを取得しパースする。
func (f *HTTPFeedFetcher) Fetch(ctx context.Context, url string) (map[string]RawCalendarComponent, error) {
	// SSRF検証。登録時にも検証済みだが、DNSの変化に備えて取得時にも行う
	if err := f.ssrfGuard.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	client := f.ssrfGuard.NewSafeClient(f.timeout, f.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}

	req.Header.Set("User-Agent", "NoteVault/1.0 Calendar Aggregator")
	req.Header.Set("Accept", "text/calendar, */*")

	start := time.Now()
	resp, err := client.Do(req)
	f.metrics.RecordFetchLatency(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	f.metrics.RecordUpstreamStatus(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	// レスポンスボディを読み込み（最大サイズ制限付き）
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	components, err := ParseComponents(body)
	if err != nil {
		f.metrics.RecordParseFailure(url)
		return nil, err
	}

	return components, nil
}

var _ FeedFetcher = (*HTTPFeedFetcher)(nil)
