package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hitoshi/notevault/internal/metrics"
	"github.com/hitoshi/notevault/internal/model"
	"github.com/hitoshi/notevault/internal/repository"
)

// civilDateLayout は問い合わせ範囲パラメータの暦日形式。
const civilDateLayout = "2006-01-02"

// Service はカレンダーフィードの集約サービス。
// 有効な全フィードを並行に取得・展開し、時系列順の1つのリストに統合する。
// オカレンスは問い合わせのたびに計算され、キャッシュも永続化もされない。
type Service struct {
	feedRepo repository.CalendarFeedRepository
	fetcher  FeedFetcher
	metrics  metrics.MetricsCollector
	loc      *time.Location
}

// NewService はServiceの新しいインスタンスを生成する。
// locは展開と暦日バケッティングに使う対象タイムゾーン。
func NewService(feedRepo repository.CalendarFeedRepository, fetcher FeedFetcher, collector metrics.MetricsCollector, loc *time.Location) *Service {
	return &Service{
		feedRepo: feedRepo,
		fetcher:  fetcher,
		metrics:  collector,
		loc:      loc,
	}
}

// ListOccurrences は暦日範囲[from, to]内の全オカレンスを時系列順で返す。
// フィード単位の取得・パース失敗は分離され、そのフィードの結果が
// 空になるだけで全体のエラーにはならない。
func (s *Service) ListOccurrences(ctx context.Context, from, to string) ([]model.CalendarOccurrence, error) {
	rangeStart, rangeEnd, err := parseRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}

	feeds, err := s.feedRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("フィード一覧の取得に失敗しました: %w", err)
	}

	// フィードごとに並行で取得・展開する。結果リストへの追加は
	// 各フィードの処理完了後にまとめて行い、部分的な書き込みを挟まない
	var (
		mu          sync.Mutex
		occurrences = make([]model.CalendarOccurrence, 0)
		wg          sync.WaitGroup
	)

	for _, feed := range feeds {
		wg.Add(1)
		go func(feed *model.CalendarFeed) {
			defer wg.Done()

			feedOccs := s.expandFeed(ctx, feed, rangeStart, rangeEnd)
			if len(feedOccs) == 0 {
				return
			}

			mu.Lock()
			occurrences = append(occurrences, feedOccs...)
			mu.Unlock()
		}(feed)
	}

	wg.Wait()

	sortOccurrences(occurrences)

	return occurrences, nil
}

// expandFeed は1つのフィードを取得し、全コンポーネントを展開する。
// 失敗時はログを出力して空を返す。
func (s *Service) expandFeed(ctx context.Context, feed *model.CalendarFeed, rangeStart, rangeEnd time.Time) []model.CalendarOccurrence {
	components, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		s.metrics.RecordFetchFailure(feed.ID, err.Error())
		slog.Warn("カレンダーフィードの取得に失敗しました",
			slog.String("feed_id", feed.ID),
			slog.String("feed_name", feed.Name),
			slog.Any("error", err),
		)
		return nil
	}
	s.metrics.RecordFetchSuccess(feed.ID)

	var occurrences []model.CalendarOccurrence
	for _, comp := range components {
		occurrences = append(occurrences, Expand(comp, rangeStart, rangeEnd, feed.Name, feed.Color, s.loc)...)
	}

	s.metrics.RecordOccurrencesExpanded(len(occurrences))

	return occurrences
}

// parseRange はfrom/toの暦日文字列を問い合わせ窓の絶対時刻に変換する。
// rangeStartはfromの深夜0時、rangeEndはtoの23:59:59（対象タイムゾーン）。
func parseRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, model.NewInvalidRequestError("fromとtoの両方を指定してください")
	}

	fromDay, err := time.ParseInLocation(civilDateLayout, from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidRequestError(fmt.Sprintf("fromの形式が不正です: %s", from))
	}
	toDay, err := time.ParseInLocation(civilDateLayout, to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidRequestError(fmt.Sprintf("toの形式が不正です: %s", to))
	}

	rangeStart := fromDay
	rangeEnd := time.Date(toDay.Year(), toDay.Month(), toDay.Day(), 23, 59, 59, 0, loc)

	return rangeStart, rangeEnd, nil
}

// sortOccurrences は最終リストを表示順に並べ替える。
// 日付昇順、同一日付内は終日が先、同一日付・同一終日区分内は
// startTime昇順（空文字列が先）。startTimeの比較は文字列の辞書順で、
// 元の表示仕様を保つ。
func sortOccurrences(occurrences []model.CalendarOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.StartTime < b.StartTime
	})
}
