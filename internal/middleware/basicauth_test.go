package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBasicAuthMiddleware_EmptyPasswordAllowsAllRequests(t *testing.T) {
	mw := NewBasicAuthMiddleware("")

	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	// 認証情報なしでも通る
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler should be called when password is not configured")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestBasicAuthMiddleware_CorrectPasswordAllowsRequest(t *testing.T) {
	mw := NewBasicAuthMiddleware("secret-123")

	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.SetBasicAuth("anyone", "secret-123")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler should be called with correct password")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestBasicAuthMiddleware_UsernameIsIgnored(t *testing.T) {
	mw := NewBasicAuthMiddleware("secret-123")

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// ユーザー名は何でもよい
	for _, username := range []string{"", "admin", "長いユーザー名テスト"} {
		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		req.SetBasicAuth(username, "secret-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("username %q: status = %d, want %d", username, w.Result().StatusCode, http.StatusOK)
		}
	}
}

func TestBasicAuthMiddleware_WrongPasswordReturns401(t *testing.T) {
	mw := NewBasicAuthMiddleware("secret-123")

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called with wrong password")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.SetBasicAuth("anyone", "wrong-password")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestBasicAuthMiddleware_MissingCredentialsReturns401WithChallenge(t *testing.T) {
	mw := NewBasicAuthMiddleware("secret-123")

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}

	challenge := w.Result().Header.Get("WWW-Authenticate")
	if !strings.HasPrefix(challenge, "Basic ") {
		t.Errorf("WWW-Authenticate = %q, want Basic challenge", challenge)
	}
	if !strings.Contains(challenge, `realm="NoteVault"`) {
		t.Errorf("WWW-Authenticate = %q, want realm NoteVault", challenge)
	}
}
