package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("no session")

const stateCookieName = "oauth_state"

// Session is the sealed cookie payload.
type Session struct {
	User     User          `json:"user"`
	Token    *oauth2.Token `json:"token"`
	IssuedAt time.Time     `json:"iat"`
}

// Manager stores sessions in sealed cookies.
type Manager struct {
	sealer *Sealer
	name   string
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a cookie session manager.
func NewManager(sealer *Sealer, cookieName string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		sealer: sealer,
		name:   cookieName,
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// Save writes sess as the session cookie.
func (m *Manager) Save(w http.ResponseWriter, sess Session) error {
	if sess.IssuedAt.IsZero() {
		sess.IssuedAt = m.now()
	}
	value, err := m.sealer.Seal(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(m.name, value, int(m.maxAge.Seconds())))
	return nil
}

// Load returns the session carried by r. Missing, tampered and expired
// cookies all yield ErrNoSession.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	var sess Session
	if err := m.sealer.Open(c.Value, &sess); err != nil {
		return nil, ErrNoSession
	}
	if m.maxAge > 0 && m.now().Sub(sess.IssuedAt) > m.maxAge {
		return nil, ErrNoSession
	}
	if sess.User.Email == "" || sess.Token == nil {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(m.name, "", -1))
}

// NewState issues a random OAuth state and stores it in a short-lived
// cookie.
func (m *Manager) NewState(w http.ResponseWriter) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)
	http.SetCookie(w, m.cookie(stateCookieName, state, int((10*time.Minute).Seconds())))
	return state, nil
}

// CheckState consumes the state cookie and compares it with state.
func (m *Manager) CheckState(w http.ResponseWriter, r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookieName)
	http.SetCookie(w, m.cookie(stateCookieName, "", -1))
	if err != nil || c.Value == "" || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) == 1
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
