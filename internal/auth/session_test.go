package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testSealer(t *testing.T) *Sealer {
	t.Helper()
	s, err := NewSealer(bytes.Repeat([]byte{7}, KeySize))
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	s := testSealer(t)

	sealed, err := s.Seal(User{Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	var u User
	if err := s.Open(sealed, &u); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if u.Email != "ann@example.com" {
		t.Errorf("Email = %q", u.Email)
	}

	again, _ := s.Seal(User{Email: "ann@example.com"})
	if again == sealed {
		t.Error("two seals of the same value should differ (random nonce)")
	}
}

func TestSealer_RejectsTampering(t *testing.T) {
	s := testSealer(t)
	sealed, _ := s.Seal(User{Email: "ann@example.com"})

	other, _ := NewSealer(bytes.Repeat([]byte{8}, KeySize))

	raw, _ := base64.RawURLEncoding.DecodeString(sealed)
	raw[len(raw)/2] ^= 0xFF
	flipped := base64.RawURLEncoding.EncodeToString(raw)

	tests := []struct {
		name   string
		sealer *Sealer
		value  string
	}{
		{"wrong key", other, sealed},
		{"flipped byte", s, flipped},
		{"truncated", s, sealed[:10]},
		{"not base64", s, "%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u User
			if err := tt.sealer.Open(tt.value, &u); !errors.Is(err, ErrTampered) {
				t.Errorf("Open error = %v, want ErrTampered", err)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	if _, err := ParseKey("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="); err != nil {
		t.Errorf("ParseKey(valid) failed: %v", err)
	}
	if _, err := ParseKey("c2hvcnQ="); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("ParseKey(short) error = %v, want ErrInvalidKey", err)
	}
	if _, err := NewSealer([]byte("short")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("NewSealer(short) error = %v, want ErrInvalidKey", err)
	}
}

func TestManager_SaveLoad(t *testing.T) {
	m := NewManager(testSealer(t), "seokit_session", time.Hour, false)

	rec := httptest.NewRecorder()
	err := m.Save(rec, Session{
		User:  User{Email: "ann@example.com", Name: "Ann"},
		Token: &oauth2.Token{AccessToken: "at", RefreshToken: "rt"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v, want one HttpOnly cookie", cookies)
	}
	if strings.Contains(cookies[0].Value, "ann@example.com") {
		t.Error("cookie value carries plaintext email")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	sess, err := m.Load(req)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sess.User.Email != "ann@example.com" || sess.Token.RefreshToken != "rt" {
		t.Errorf("session = %+v", sess)
	}
}

func TestManager_LoadExpired(t *testing.T) {
	m := NewManager(testSealer(t), "s", time.Minute, false)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	m.Save(rec, Session{User: User{Email: "a@b.c"}, Token: &oauth2.Token{AccessToken: "x"}})

	m.now = func() time.Time { return time.Date(2024, 1, 1, 0, 2, 0, 0, time.UTC) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if _, err := m.Load(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load error = %v, want ErrNoSession", err)
	}
}

func TestManager_LoadMissing(t *testing.T) {
	m := NewManager(testSealer(t), "s", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.Load(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load error = %v, want ErrNoSession", err)
	}
}

func TestManager_State(t *testing.T) {
	m := NewManager(testSealer(t), "s", time.Hour, true)

	rec := httptest.NewRecorder()
	state, err := m.NewState(rec)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	cookie := rec.Result().Cookies()[0]
	if !cookie.Secure {
		t.Error("state cookie should be Secure")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	req.AddCookie(cookie)
	if !m.CheckState(httptest.NewRecorder(), req, state) {
		t.Error("CheckState rejected matching state")
	}
	if m.CheckState(httptest.NewRecorder(), req, state+"x") {
		t.Error("CheckState accepted wrong state")
	}
	if m.CheckState(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), state) {
		t.Error("CheckState accepted request without cookie")
	}
}

func TestUserFromContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("empty context has a user")
	}
	ctx := WithSession(context.Background(), &Session{User: User{Email: "a@b.c"}})
	u, ok := UserFromContext(ctx)
	if !ok || u.Email != "a@b.c" {
		t.Errorf("UserFromContext = %+v, %v", u, ok)
	}
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := NewProvider("client-id", "secret", "http://localhost:8080/auth/callback")
	u := p.AuthCodeURL("xyz")

	for _, want := range []string{"state=xyz", "access_type=offline", "prompt=consent", "include_granted_scopes=true", "spreadsheets"} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthCodeURL missing %q: %s", want, u)
		}
	}
}
