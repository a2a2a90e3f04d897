package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vetalert/vetalert/internal/model"
)

// --- モック定義 ---

type mockSessionRepository struct {
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func rescuerSession() *model.Session {
	return &model.Session{
		ID:        "valid-session-id",
		Role:      model.RoleRescuer,
		Org:       "Paws NGO",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
}

// --- テスト ---

func TestSessionMiddleware_ValidSession_InjectsSession(t *testing.T) {
	repo := &mockSessionRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id == "valid-session-id" {
				return rescuerSession(), nil
			}
			return nil, nil
		},
	}

	mw := NewSessionMiddleware(repo)

	var captured *model.Session
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid-session-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("expected session in context")
	}
	if captured.Role != model.RoleRescuer {
		t.Errorf("role = %q, want %q", captured.Role, model.RoleRescuer)
	}
}

func TestSessionMiddleware_NoCookie_PassesThroughAnonymous(t *testing.T) {
	repo := &mockSessionRepository{}
	mw := NewSessionMiddleware(repo)

	var captured *model.Session
	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		captured = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// 匿名リクエストは拒否せず、セッションなしで通す
	if !handlerCalled {
		t.Fatal("handler should be called for anonymous request")
	}
	if captured != nil {
		t.Errorf("expected nil session, got %+v", captured)
	}
}

func TestSessionMiddleware_ExpiredSession_PassesThroughAnonymous(t *testing.T) {
	repo := &mockSessionRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			// セッションが見つからない（期限切れでnilを返すリポジトリの動作をシミュレート）
			return nil, nil
		},
	}
	mw := NewSessionMiddleware(repo)

	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if SessionFromContext(r.Context()) != nil {
			t.Error("expected nil session for expired cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "expired-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Fatal("handler should be called for expired session")
	}
}

func TestRequireRescuer_RescuerSession_PassesThrough(t *testing.T) {
	handlerCalled := false
	handler := RequireRescuer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req = req.WithContext(ContextWithSession(req.Context(), rescuerSession()))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Fatal("handler should be called for rescuer session")
	}
}

func TestRequireRescuer_NoSession_Returns401(t *testing.T) {
	handler := RequireRescuer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.OK {
		t.Error("ok should be false")
	}
	if body.Error != "Unauthorized" {
		t.Errorf("error = %q, want %q", body.Error, "Unauthorized")
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
	}
}

func TestRequireRescuer_CitizenSession_Returns401(t *testing.T) {
	handler := RequireRescuer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	citizen := &model.Session{
		ID:        "citizen-session",
		Role:      model.RoleCitizen,
		Name:      "Alice",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req = req.WithContext(ContextWithSession(req.Context(), citizen))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// 市民ロールはレスキュアー専用APIにアクセスできない
	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestSessionFromContext_NoValue_ReturnsNil(t *testing.T) {
	if session := SessionFromContext(context.Background()); session != nil {
		t.Errorf("expected nil session, got %+v", session)
	}
}

func TestSessionFromContext_ValidValue_ReturnsSession(t *testing.T) {
	ctx := ContextWithSession(context.Background(), rescuerSession())
	session := SessionFromContext(ctx)
	if session == nil {
		t.Fatal("expected session in context")
	}
	if session.ID != "valid-session-id" {
		t.Errorf("session ID = %q, want %q", session.ID, "valid-session-id")
	}
}
