package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vetalert/vetalert/internal/middleware"
	"github.com/vetalert/vetalert/internal/model"
)

func withSession(req *http.Request, session *model.Session) *http.Request {
	return req.WithContext(middleware.ContextWithSession(req.Context(), session))
}

func testRescuerSession() *model.Session {
	return &model.Session{
		ID:        "rescuer-session",
		Role:      model.RoleRescuer,
		Org:       "Paws NGO",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
}

func TestHome_RendersLandingPage(t *testing.T) {
	h := NewPageHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.Home(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "VetAlert") {
		t.Error("body should contain site name")
	}
}

func TestHome_WithCitizenSession_ShowsGreeting(t *testing.T) {
	h := NewPageHandler()

	citizen := &model.Session{
		ID:        "citizen-session",
		Role:      model.RoleCitizen,
		Name:      "Alice",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), citizen)
	w := httptest.NewRecorder()

	h.Home(w, req)

	if !strings.Contains(w.Body.String(), "Alice") {
		t.Error("body should greet the logged-in citizen by name")
	}
}

func TestHome_EscapesSessionName(t *testing.T) {
	h := NewPageHandler()

	citizen := &model.Session{
		ID:        "citizen-session",
		Role:      model.RoleCitizen,
		Name:      `<script>alert("x")</script>`,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), citizen)
	w := httptest.NewRecorder()

	h.Home(w, req)

	if strings.Contains(w.Body.String(), "<script>alert") {
		t.Error("session name should be HTML-escaped")
	}
}

func TestReportPage_Renders(t *testing.T) {
	h := NewPageHandler()

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	w := httptest.NewRecorder()

	h.ReportPage(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "animalType") {
		t.Error("report page should contain the submission form")
	}
}

func TestRescuePage_WithoutRescuerSession_RedirectsToLogin(t *testing.T) {
	h := NewPageHandler()

	tests := []struct {
		name    string
		session *model.Session
	}{
		{"匿名", nil},
		{"市民セッション", &model.Session{
			ID:        "citizen-session",
			Role:      model.RoleCitizen,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rescue", nil)
			if tt.session != nil {
				req = withSession(req, tt.session)
			}
			w := httptest.NewRecorder()

			h.RescuePage(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusSeeOther {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
			}
			if loc := resp.Header.Get("Location"); loc != "/rescue-login" {
				t.Errorf("Location = %q, want %q", loc, "/rescue-login")
			}
		})
	}
}

func TestRescuePage_WithRescuerSession_RendersDashboard(t *testing.T) {
	h := NewPageHandler()

	req := withSession(httptest.NewRequest(http.MethodGet, "/rescue", nil), testRescuerSession())
	w := httptest.NewRecorder()

	h.RescuePage(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Incoming reports") {
		t.Error("dashboard should contain the report table")
	}
	if !strings.Contains(body, "Paws NGO") {
		t.Error("dashboard should show the org name")
	}
}

func TestRescueLoginPage_Renders(t *testing.T) {
	h := NewPageHandler()

	req := httptest.NewRequest(http.MethodGet, "/rescue-login", nil)
	w := httptest.NewRecorder()

	h.RescueLoginPage(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Access code") {
		t.Error("login page should contain the access code field")
	}
}

func TestStaticPages_Render(t *testing.T) {
	h := NewPageHandler()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		marker  string
	}{
		{"fund", h.FundPage, "Fund a rescue"},
		{"about", h.AboutPage, "About VetAlert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.name, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Result().StatusCode != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
			}
			if !strings.Contains(w.Body.String(), tt.marker) {
				t.Errorf("body should contain %q", tt.marker)
			}
		})
	}
}
