package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/vetalert/vetalert/internal/middleware"
	"github.com/vetalert/vetalert/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageNames は埋め込みテンプレートのページ名一覧。
var pageNames = []string{"index", "report", "rescue", "rescue_login", "fund", "about"}

// pageData はページテンプレートに渡すデータ。
type pageData struct {
	Session *model.Session
	Error   string
}

// PageHandler はサーバーサイドレンダリングのページハンドラー。
type PageHandler struct {
	templates map[string]*template.Template
}

// NewPageHandler は埋め込みテンプレートをパースしてPageHandlerを生成する。
// テンプレートの不備は起動時にpanicで検出する。
func NewPageHandler() *PageHandler {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		templates[name] = template.Must(
			template.ParseFS(templateFS, "templates/"+name+".html"),
		)
	}
	return &PageHandler{templates: templates}
}

// Home はトップページを表示する。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index", pageData{Session: middleware.SessionFromContext(r.Context())})
}

// ReportPage は通報フォームページを表示する。
// GET /report
func (h *PageHandler) ReportPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "report", pageData{Session: middleware.SessionFromContext(r.Context())})
}

// RescuePage はレスキュアーダッシュボードを表示する。
// レスキュアーセッションがない場合はログインページへリダイレクトする。
// GET /rescue
func (h *PageHandler) RescuePage(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if !session.IsRescuer() {
		http.Redirect(w, r, "/rescue-login", http.StatusSeeOther)
		return
	}
	h.render(w, "rescue", pageData{Session: session})
}

// RescueLoginPage はNGOログインページを表示する。
// GET /rescue-login
func (h *PageHandler) RescueLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "rescue_login", pageData{Session: middleware.SessionFromContext(r.Context())})
}

// FundPage は寄付ページを表示する。
// GET /fund
func (h *PageHandler) FundPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "fund", pageData{Session: middleware.SessionFromContext(r.Context())})
}

// AboutPage は活動紹介ページを表示する。
// GET /about
func (h *PageHandler) AboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about", pageData{Session: middleware.SessionFromContext(r.Context())})
}

// RenderRescueLogin はNGOログインページをエラーメッセージ付きで再表示する。
// アクセスコード不一致時にAuthHandlerから呼ばれる。
func (h *PageHandler) RenderRescueLogin(w http.ResponseWriter, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	if err := h.templates["rescue_login"].Execute(w, pageData{Error: errMsg}); err != nil {
		slog.Error("failed to render page",
			slog.String("name", "rescue_login"),
			slog.String("error", err.Error()),
		)
	}
}

// render は指定されたページテンプレートを描画する。
func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := h.templates[name]
	if !ok {
		slog.Error("unknown page template", slog.String("name", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("failed to render page",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
	}
}
