// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// basicAuthRealm はWWW-Authenticateヘッダに載せるrealm名。
const basicAuthRealm = "NoteVault"

// NewBasicAuthMiddleware は共有パスワードによるHTTP Basic認証ミドルウェアを返す。
// シングルユーザー運用を前提としており、ユーザー名は検証せず
// パスワード部のみをAPP_PASSWORDと照合する。
// passwordが空文字列の場合は認証なしの公開アクセスになる。
// 比較はタイミング攻撃対策としてsubtle.ConstantTimeCompareで行う。
func NewBasicAuthMiddleware(password string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// パスワード未設定の場合はオープンアクセス
			if password == "" {
				next.ServeHTTP(w, r)
				return
			}

			_, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+basicAuthRealm+`"`)
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
