package calendar

import (
	"bytes"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ParseComponents はiCalendarバイト列をパースし、
// 不透明キーからRawCalendarComponentへのマップを返す。
// キーはUIDを基本とし、UID欠落や重複時は連番で一意化する。
// DTSTART/DTENDのタイムゾーン解釈はライブラリに委譲する。
func ParseComponents(body []byte) (map[string]RawCalendarComponent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("iCalendarのパースに失敗しました: %w", err)
	}

	components := make(map[string]RawCalendarComponent)

	for i, ve := range cal.Events() {
		comp := parseVEvent(ve)

		key := comp.UID
		if key == "" {
			key = fmt.Sprintf("vevent-%d", i)
		}
		if _, exists := components[key]; exists {
			key = fmt.Sprintf("%s#%d", key, i)
		}

		components[key] = comp
	}

	return components, nil
}

// parseVEvent は1つのVEVENTをRawCalendarComponentに正規化する。
func parseVEvent(ve *ical.VEvent) RawCalendarComponent {
	comp := RawCalendarComponent{Type: ComponentTypeEvent}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		comp.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		comp.Summary = p.Value
	}

	// DTSTART/DTEND。DATE-TIME形式を優先し、DATE形式（終日）にフォールバックする
	if start, ok := eventStart(ve); ok {
		comp.Start = &start
	}
	if end, ok := eventEnd(ve); ok {
		comp.End = &end
	}

	// RRULE。展開時に遅延評価され、不正なルールは単発イベント扱いになる
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		var dtstart time.Time
		if comp.Start != nil {
			dtstart = *comp.Start
		}
		comp.Rule = NewRecurrenceRule(p.Value, dtstart)
	}

	return comp
}

func eventStart(ve *ical.VEvent) (time.Time, bool) {
	if t, err := ve.GetStartAt(); err == nil {
		return t, true
	}
	if t, err := ve.GetAllDayStartAt(); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func eventEnd(ve *ical.VEvent) (time.Time, bool) {
	if t, err := ve.GetEndAt(); err == nil {
		return t, true
	}
	if t, err := ve.GetAllDayEndAt(); err == nil {
		return t, true
	}
	return time.Time{}, false
}
