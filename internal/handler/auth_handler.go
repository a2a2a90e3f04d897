package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vetalert/vetalert/internal/metrics"
	"github.com/vetalert/vetalert/internal/middleware"
	"github.com/vetalert/vetalert/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	LoginAsCitizen(ctx context.Context, name string) (*model.Session, error)
	LoginAsRescuer(ctx context.Context, org, code string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// RescueLoginRenderer はアクセスコード不一致時の再表示に必要なインターフェース。
type RescueLoginRenderer interface {
	RenderRescueLogin(w http.ResponseWriter, errMsg string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はフォームベースのログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer RescueLoginRenderer
	metrics  metrics.MetricsCollector
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer RescueLoginRenderer, collector metrics.MetricsCollector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		metrics:  collector,
		config:   config,
	}
}

// CitizenLogin は市民ログインを処理する。名前は任意で、常に成功する。
// POST /login
func (h *AuthHandler) CitizenLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	session, err := h.service.LoginAsCitizen(r.Context(), r.PostFormValue("name"))
	if err != nil {
		slog.Error("citizen login failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess(string(model.RoleCitizen))
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RescuerLogin はNGOログインを処理する。
// アクセスコード不一致の場合はログインページをエラーメッセージ付きで再表示する。
// POST /rescue-login
func (h *AuthHandler) RescuerLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	org := r.PostFormValue("org")
	code := r.PostFormValue("code")

	session, err := h.service.LoginAsRescuer(r.Context(), org, code)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeInvalidAccessCode {
			h.metrics.RecordLoginFailure(string(model.RoleRescuer))
			h.renderer.RenderRescueLogin(w, apiErr.Message)
			return
		}

		slog.Error("rescuer login failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess(string(model.RoleRescuer))
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/rescue", http.StatusSeeOther)
}

// Logout はセッションを破棄しCookieをクリアする。冪等。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie はセッションCookieを設定する（HTTP Only）。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
