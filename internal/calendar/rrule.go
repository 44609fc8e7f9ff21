package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// icalRecurrenceRule はRRULE文字列を遅延評価するRecurrenceRuleの実装。
// パースはBetweenの呼び出し時に行い、不正なルールはエラーとして返す。
// dtstartはイベントのDTSTARTで、ルールの基点となる。
type icalRecurrenceRule struct {
	raw     string
	dtstart time.Time
}

// NewRecurrenceRule はRRULE文字列からRecurrenceRuleを生成する。
func NewRecurrenceRule(raw string, dtstart time.Time) RecurrenceRule {
	return &icalRecurrenceRule{raw: raw, dtstart: dtstart}
}

// Between は[start, end]（両端を含む）内の全開始時刻を返す。
func (r *icalRecurrenceRule) Between(start, end time.Time) ([]time.Time, error) {
	rule, err := rrule.StrToRRule(r.raw)
	if err != nil {
		return nil, fmt.Errorf("RRULEのパースに失敗しました: %w", err)
	}

	rule.DTStart(r.dtstart)

	var set rrule.Set
	set.RRule(rule)

	// Betweenはdtstartと同じロケーションで評価する
	loc := r.dtstart.Location()
	return set.Between(start.In(loc), end.In(loc), true), nil
}

var _ RecurrenceRule = (*icalRecurrenceRule)(nil)
