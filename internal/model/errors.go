// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, note, planner, calendar, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeNoteNotFound         = "NOTE_NOT_FOUND"
	ErrCodeNotebookNotFound     = "NOTEBOOK_NOT_FOUND"
	ErrCodeTagNotFound          = "TAG_NOT_FOUND"
	ErrCodePlannerItemNotFound  = "PLANNER_ITEM_NOT_FOUND"
	ErrCodeCalendarFeedNotFound = "CALENDAR_FEED_NOT_FOUND"
	ErrCodeTaskNotFound         = "TASK_NOT_FOUND"
	ErrCodeInvalidURL           = "INVALID_URL"
	ErrCodeSSRFBlocked          = "SSRF_BLOCKED"
)

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewNoteNotFoundError はノート未検出エラーを生成する。
func NewNoteNotFoundError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定されたノートが見つかりません: %s", noteID),
		Category: "note",
		Action:   "ノートIDを確認してください。",
	}
}

// NewNotebookNotFoundError はノートブック未検出エラーを生成する。
func NewNotebookNotFoundError(notebookID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotebookNotFound,
		Message:  fmt.Sprintf("指定されたノートブックが見つかりません: %s", notebookID),
		Category: "note",
		Action:   "ノートブックIDを確認してください。",
	}
}

// NewTagNotFoundError はタグ未検出エラーを生成する。
func NewTagNotFoundError(tagID string) *APIError {
	return &APIError{
		Code:     ErrCodeTagNotFound,
		Message:  fmt.Sprintf("指定されたタグが見つかりません: %s", tagID),
		Category: "note",
		Action:   "タグIDを確認してください。",
	}
}

// NewPlannerItemNotFoundError はプランナー項目未検出エラーを生成する。
func NewPlannerItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodePlannerItemNotFound,
		Message:  fmt.Sprintf("指定されたプランナー項目が見つかりません: %s", itemID),
		Category: "planner",
		Action:   "項目IDを確認してください。",
	}
}

// NewCalendarFeedNotFoundError はカレンダーフィード未検出エラーを生成する。
func NewCalendarFeedNotFoundError(feedID string) *APIError {
	return &APIError{
		Code:     ErrCodeCalendarFeedNotFound,
		Message:  fmt.Sprintf("指定されたカレンダーフィードが見つかりません: %s", feedID),
		Category: "calendar",
		Action:   "フィードIDを確認してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
// タスクIDはノートIDとドキュメント内位置の複合キーであり、
// ノートの編集によって無効になることがある。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "note",
		Action:   "タスク一覧を再読み込みしてください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているカレンダーのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}
