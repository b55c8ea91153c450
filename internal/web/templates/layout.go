package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/seokit/internal/auth"
)

// LayoutParams describes the page shell.
type LayoutParams struct {
	Title        string
	User         *auth.User
	LoginEnabled bool
}

// Layout wraps body in the common page shell with the navigation bar.
func Layout(p LayoutParams, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(p.Title)
		h.raw(` · seokit</title>`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/app.js" defer></script>`)
		h.raw(`</head><body><header class="nav"><a class="brand" href="/">seokit</a><nav>`)
		switch {
		case p.User != nil:
			h.raw(`<span class="user">`)
			h.text(p.User.Email)
			h.raw(`</span><a href="/history">History</a>`)
			h.raw(`<form method="post" action="/logout" class="inline"><button type="submit">Sign out</button></form>`)
		case p.LoginEnabled:
			h.raw(`<a class="button" href="/login">Sign in with Google</a>`)
		}
		h.raw(`</nav></header><main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
	})
}
