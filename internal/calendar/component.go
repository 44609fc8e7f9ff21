package calendar

import "time"

// ComponentTypeEvent は展開対象となるコンポーネント種別。
const ComponentTypeEvent = "VEVENT"

// defaultSummary はSUMMARY未設定のコンポーネントに使う表示名。
const defaultSummary = "Untitled"

// RecurrenceRule は繰り返しルールの評価インターフェース。
// Betweenは[start, end]（両端を含む）内の全開始時刻を返す。
// ルールが不正な場合はエラーを返し、呼び出し側は
// 繰り返しなしの単発イベントとしてフォールバックする。
type RecurrenceRule interface {
	Between(start, end time.Time) ([]time.Time, error)
}

// RawCalendarComponent はパース済みiCalendarコンポーネント1件を表す。
// 外部パーサーの出力を明示的な構造体に正規化したもの。
// UID未設定は空文字列、SUMMARY未設定はdefaultSummaryとして扱う。
type RawCalendarComponent struct {
	Type    string
	UID     string
	Summary string
	Start   *time.Time
	End     *time.Time
	Rule    RecurrenceRule
}
