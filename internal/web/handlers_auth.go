package web

import (
	"net/http"

	"github.com/JonMunkholm/seokit/internal/auth"
	"github.com/JonMunkholm/seokit/internal/logging"
)

// handleLogin redirects to the Google consent page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil || s.sessions == nil {
		http.NotFound(w, r)
		return
	}

	state, err := s.sessions.NewState(w)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, s.provider.AuthCodeURL(state), http.StatusFound)
}

// handleCallback completes sign-in and stores the session cookie.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil || s.sessions == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		logging.FromContext(r.Context()).Warn("sign-in declined", "reason", reason)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if !s.sessions.CheckState(w, r, q.Get("state")) {
		s.respondError(w, r, auth.ErrTampered, http.StatusBadRequest)
		return
	}

	tok, err := s.provider.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}
	user, err := s.provider.FetchUser(r.Context(), tok)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}
	if err := s.sessions.Save(w, auth.Session{User: user, Token: tok}); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("signed in", "user", user.Email)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.sessions != nil {
		s.sessions.Clear(w)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
