// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はノートのHTMLコンテンツをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はノートコンテンツのサニタイズ機能のインターフェースを定義する。
// ノートの保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeNoteContent はノートのコンテンツをサニタイズして返す。
	// コンテンツがTipTapのJSONドキュメントの場合はそのまま返す
	// （JSONドキュメントはレンダラ側でノード種別ごとに解釈されるため
	// HTMLとして実行されることはない）。
	// HTML文字列の場合は許可リストベースでサニタイズする。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeNoteContent(content string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// ポリシーの内容:
//   - 許可タグ: p, br, a, ul, ol, li, blockquote, pre, code, strong, em,
//     h1〜h4, img
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
//   - imgのsrc属性: httpsスキームのみ許可
//   - aタグ: target="_blank" と rel="noreferrer noopener" を自動付与
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// 許可タグの設定（属性なしのシンプルなタグ）。
	// script, iframe, style等は許可リストに含めないことで自動的に除去される。
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される。
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
		"h1", "h2", "h3", "h4",
	)

	// aタグ: href属性のみ許可し、外部リンクとして開かせる。
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// imgタグ: src属性はhttpsスキームのみ許可（http, javascript, data等は拒否）。
	// alt属性はアクセシビリティのため許可。
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		policy: p,
	}
}

// SanitizeNoteContent はノートのコンテンツをサニタイズして返す。
func (s *contentSanitizer) SanitizeNoteContent(content string) string {
	if content == "" {
		return ""
	}
	if isTiptapDoc(content) {
		return content
	}
	return s.policy.Sanitize(content)
}

// isTiptapDoc はコンテンツがTipTapのJSONドキュメントかを判定する。
func isTiptapDoc(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return false
	}
	return doc.Type == "doc"
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
