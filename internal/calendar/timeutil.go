// Package calendar は外部iCalendarフィードの集約と
// 繰り返しイベントの展開を提供する。
package calendar

import "time"

// allDayMinDuration は終日判定の最小継続時間。
// 丸一日（24時間）以上の深夜0時起点のスパンのみが終日扱いになる。
const allDayMinDuration = 24 * time.Hour

// CivilDate は絶対時刻を対象タイムゾーンでの暦日 "YYYY-MM-DD" に変換する。
// 暦日のバケッティングはすべてこの関数を経由する。
func CivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// ClockTime は絶対時刻を対象タイムゾーンでの12時間表記 "H:MM AM/PM" に変換する。
// 時の先頭ゼロは付けない。
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

// hourOfDay は対象タイムゾーンでの時（0〜23）を返す。
func hourOfDay(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}

// minuteOfHour は対象タイムゾーンでの分（0〜59）を返す。
func minuteOfHour(t time.Time, loc *time.Location) int {
	return t.In(loc).Minute()
}

// IsAllDay はstartとendの両方が対象タイムゾーンの深夜0時ちょうどにあり、
// かつ継続時間が24時間以上の場合にtrueを返す。
// 深夜0時起点でも24時間未満のイベントは終日扱いにならない。
func IsAllDay(start, end time.Time, loc *time.Location) bool {
	if hourOfDay(start, loc) != 0 || minuteOfHour(start, loc) != 0 {
		return false
	}
	if hourOfDay(end, loc) != 0 || minuteOfHour(end, loc) != 0 {
		return false
	}
	return end.Sub(start) >= allDayMinDuration
}
