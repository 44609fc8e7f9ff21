package calendar

import (
	"log/slog"
	"time"

	"github.com/hitoshi/notevault/internal/model"
)

// Expand は1つのコンポーネントを問い合わせ窓[rangeStart, rangeEnd]に対して展開し、
// フィードの名前と色を付与したオカレンス列を返す。
//
// 繰り返しイベントは各回の開始日に1件ずつ展開され、複数日に跨っても
// 日単位には分割されない。日単位の分割を行うのは単発イベントのみ。
// この非対称は繰り返しの各回が単日であることを前提とした仕様である。
func Expand(comp RawCalendarComponent, rangeStart, rangeEnd time.Time, feedName, feedColor string, loc *time.Location) []model.CalendarOccurrence {
	if comp.Type != ComponentTypeEvent {
		return nil
	}

	summary := comp.Summary
	if summary == "" {
		summary = defaultSummary
	}

	// 繰り返しイベントの展開
	if comp.Rule != nil {
		occurrences, ok := expandRecurring(comp, summary, rangeStart, rangeEnd, feedName, feedColor, loc)
		if ok {
			return occurrences
		}
		// ルールが不正、または窓内に開始時刻が1つもない場合は
		// 単発イベントとしてフォールバックする
	}

	return expandSingle(comp, summary, rangeStart, rangeEnd, feedName, feedColor, loc)
}

// expandRecurring は繰り返しルールを評価してオカレンスを生成する。
// ルール評価の失敗または窓内0件の場合は(nil, false)を返し、
// 呼び出し側が単発イベント処理にフォールバックする。
func expandRecurring(comp RawCalendarComponent, summary string, rangeStart, rangeEnd time.Time, feedName, feedColor string, loc *time.Location) ([]model.CalendarOccurrence, bool) {
	starts, err := comp.Rule.Between(rangeStart, rangeEnd)
	if err != nil {
		slog.Warn("繰り返しルールの評価に失敗しました。単発イベントとして処理します",
			slog.String("uid", comp.UID),
			slog.Any("error", err),
		)
		return nil, false
	}
	if len(starts) == 0 {
		return nil, false
	}

	// 継続時間はコンポーネント自身のstart/endから求める。どちらか欠けていれば0
	var duration time.Duration
	if comp.Start != nil && comp.End != nil {
		duration = comp.End.Sub(*comp.Start)
	}

	occurrences := make([]model.CalendarOccurrence, 0, len(starts))
	for _, s := range starts {
		e := s.Add(duration)

		// 継続時間が不明な繰り返しは時刻を持てないため終日マーカーとして扱う
		allDay := true
		if duration > 0 {
			allDay = IsAllDay(s, e, loc)
		}

		date := CivilDate(s, loc)
		occ := model.CalendarOccurrence{
			ID:        comp.UID + "_" + date,
			Title:     summary,
			Date:      date,
			AllDay:    allDay,
			FeedName:  feedName,
			FeedColor: feedColor,
		}
		if !allDay {
			occ.StartTime = ClockTime(s, loc)
			occ.EndTime = ClockTime(e, loc)
		}
		occurrences = append(occurrences, occ)
	}

	return occurrences, true
}

// expandSingle は繰り返しなしの単発イベントを展開する。
// 終日かつ丸一日を超えるスパンは在期間の暦日ごとに1件ずつ分割される。
func expandSingle(comp RawCalendarComponent, summary string, rangeStart, rangeEnd time.Time, feedName, feedColor string, loc *time.Location) []model.CalendarOccurrence {
	if comp.Start == nil {
		return nil
	}

	start := *comp.Start
	end := start
	if comp.End != nil {
		end = *comp.End
	}

	// 範囲判定は暦日文字列の比較で行う。ゼロ埋めISO形式のため
	// 辞書順比較が時系列順と一致する
	fromDate := CivilDate(rangeStart, loc)
	toDate := CivilDate(rangeEnd, loc)

	date := CivilDate(start, loc)
	if date < fromDate || date > toDate {
		return nil
	}

	allDay := IsAllDay(start, end, loc)

	// 複数日に跨る終日イベントは暦日ごとに分割する
	if allDay && end.Sub(start) > allDayMinDuration {
		var occurrences []model.CalendarOccurrence
		for cur := start.In(loc); cur.Before(end); cur = cur.AddDate(0, 0, 1) {
			d := CivilDate(cur, loc)
			if d < fromDate || d > toDate {
				continue
			}
			occurrences = append(occurrences, model.CalendarOccurrence{
				ID:        comp.UID + "_" + d,
				Title:     summary,
				Date:      d,
				AllDay:    true,
				FeedName:  feedName,
				FeedColor: feedColor,
			})
		}
		return occurrences
	}

	occ := model.CalendarOccurrence{
		ID:        comp.UID + "_" + date,
		Title:     summary,
		Date:      date,
		AllDay:    allDay,
		FeedName:  feedName,
		FeedColor: feedColor,
	}
	if !allDay {
		occ.StartTime = ClockTime(start, loc)
		occ.EndTime = ClockTime(end, loc)
	}
	return []model.CalendarOccurrence{occ}
}
