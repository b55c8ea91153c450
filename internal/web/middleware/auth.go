package middleware

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/seokit/internal/auth"
)

// LoadSession attaches the signed-in session, if any, to the request
// context. Requests without a valid session pass through unchanged.
func LoadSession(m *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

// RequireUser rejects requests that carry no signed-in session.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFromContext(r.Context()); !ok {
			slog.Warn("auth: login required",
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"login required","message":"You need to sign in first","code":"AUTH001"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
