package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/seokit/internal/core"
	mw "github.com/JonMunkholm/seokit/internal/web/middleware"
)

// WithRequestMetadata copies the client address and user agent into ctx so
// job logs and history rows can name the caller.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, mw.ClientIP(r))
	return core.ContextWithUserAgent(ctx, r.UserAgent())
}
