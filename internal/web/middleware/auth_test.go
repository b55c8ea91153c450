package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/JonMunkholm/seokit/internal/auth"
)

func testManager(t *testing.T) *auth.Manager {
	t.Helper()
	key, err := auth.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	sealer, err := auth.NewSealer(key)
	if err != nil {
		t.Fatal(err)
	}
	return auth.NewManager(sealer, "sess", time.Hour, false)
}

func TestLoadSessionAndRequireUser(t *testing.T) {
	m := testManager(t)

	var sawUser string
	handler := LoadSession(m)(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.UserFromContext(r.Context())
		sawUser = u.Email
	})))

	t.Run("anonymous request is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/detect-language", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("signed-in request passes", func(t *testing.T) {
		save := httptest.NewRecorder()
		err := m.Save(save, auth.Session{
			User:  auth.User{Email: "ana@example.com"},
			Token: &oauth2.Token{AccessToken: "at", RefreshToken: "rt"},
		})
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/jobs/detect-language", nil)
		for _, c := range save.Result().Cookies() {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if sawUser != "ana@example.com" {
			t.Errorf("user = %q, want ana@example.com", sawUser)
		}
	})
}
