package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/seokit/internal/auth"
	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/history"
	"github.com/JonMunkholm/seokit/internal/web/templates"
)

// handleHome renders the tool list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "Tools", templates.Home(s.service.Tools()))
}

func (s *Server) handleHighlightPage(w http.ResponseWriter, r *http.Request) {
	tool, _ := core.Get(core.ToolHighlightRows)
	_, signedIn := auth.UserFromContext(r.Context())
	s.renderPage(w, r, tool.Name, templates.HighlightPage(templates.HighlightParams{
		Tool:     tool,
		SignedIn: signedIn,
	}))
}

func (s *Server) handleDetectPage(w http.ResponseWriter, r *http.Request) {
	tool, _ := core.Get(core.ToolDetectLanguage)
	_, signedIn := auth.UserFromContext(r.Context())
	s.renderPage(w, r, tool.Name, templates.DetectPage(templates.DetectParams{
		Tool:               tool,
		SignedIn:           signedIn,
		LoginEnabled:       s.provider != nil,
		DefaultDestination: s.cfg.Detect.DefaultDestination,
	}))
}

// handleHistoryPage lists the signed-in user's recent runs.
func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderPage(w, r, "History", templates.LoginRequired(s.provider != nil))
		return
	}

	entries, err := s.service.ListHistory(r.Context(), history.Filter{
		UserEmail: user.Email,
		Limit:     s.cfg.History.PageSize,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, "History", templates.HistoryPage(entries))
}

// renderPage wraps body in the layout for the current user.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	params := templates.LayoutParams{Title: title, LoginEnabled: s.provider != nil}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		params.User = &user
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(params, body).Render(r.Context(), w); err != nil {
		slog.Error("render page", "title", title, "error", err)
	}
}

// renderPartial writes an HTML fragment with status.
func renderPartial(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render partial", "path", r.URL.Path, "error", err)
	}
}
