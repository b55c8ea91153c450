package auth

import "context"

type sessionKey struct{}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session stored by WithSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}

// UserFromContext returns the signed-in user.
func UserFromContext(ctx context.Context) (User, bool) {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.User, true
	}
	return User{}, false
}
