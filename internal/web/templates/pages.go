package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/seokit/internal/core"
)

// Home lists the available tools as cards.
func Home(tools []core.Tool) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h1>Spreadsheet tools</h1><div class="cards">`)
		for _, t := range tools {
			h.component(ctx, ToolCard(t))
		}
		h.raw(`</div>`)
	})
}

// ToolCard links to one tool.
func ToolCard(t core.Tool) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.rawf(`<a class="card" href="%s">`, attr(t.Path))
		h.raw(`<span class="icon">`)
		h.text(t.Icon)
		h.raw(`</span><h2>`)
		h.text(t.Name)
		h.raw(`</h2><p>`)
		h.text(t.Description)
		h.raw(`</p>`)
		if t.RequiresLogin {
			h.raw(`<span class="badge">Sign-in required</span>`)
		}
		h.raw(`</a>`)
	})
}

// HighlightParams are the inputs of the Highlight Rows page.
type HighlightParams struct {
	Tool     core.Tool
	SignedIn bool
}

// HighlightPage renders the Highlight Rows form and the offline preview form.
func HighlightPage(p HighlightParams) templ.Component {
	return component(func(ctx context.Context, h *html) {
		toolHeader(h, p.Tool)

		h.raw(`<form class="tool-form" data-job-form action="/api/jobs/highlight" method="post" enctype="multipart/form-data">`)
		field(h, "document_url", "Document URL", "url", "https://docs.google.com/spreadsheets/d/…", "")
		field(h, "worksheet", "Worksheet", "text", "Sheet1", "")
		field(h, "group_column", "Group column", "text", "Metric", "")
		h.raw(`<label>Service account key (JSON)`)
		if p.SignedIn {
			h.raw(` <small>optional, your Google account is used otherwise</small>`)
		}
		h.raw(`<input type="file" name="credentials" accept="application/json,.json"`)
		if !p.SignedIn {
			h.raw(` required`)
		}
		h.raw(`></label><button type="submit">Highlight rows</button></form>`)
		h.raw(`<div id="job"></div>`)

		h.raw(`<section class="preview"><h2>Preview a CSV file</h2>`)
		h.raw(`<p>Upload a CSV export and download it as a highlighted Excel workbook. Nothing is sent to Google.</p>`)
		h.raw(`<form action="/api/preview/highlight" method="post" enctype="multipart/form-data">`)
		h.raw(`<label>CSV file<input type="file" name="file" accept=".csv,text/csv" required></label>`)
		field(h, "group_column", "Group column", "text", "Metric", "")
		h.raw(`<button type="submit">Download .xlsx</button></form></section>`)
	})
}

// DetectParams are the inputs of the Detect Language page.
type DetectParams struct {
	Tool               core.Tool
	SignedIn           bool
	LoginEnabled       bool
	DefaultDestination string
}

// DetectPage renders the Detect Language form.
func DetectPage(p DetectParams) templ.Component {
	return component(func(ctx context.Context, h *html) {
		toolHeader(h, p.Tool)
		if !p.SignedIn {
			h.component(ctx, LoginRequired(p.LoginEnabled))
			return
		}

		h.raw(`<form class="tool-form" data-job-form action="/api/jobs/detect-language" method="post">`)
		field(h, "document_url", "Document URL", "url", "https://docs.google.com/spreadsheets/d/…", "")
		field(h, "worksheet", "Worksheet", "text", "Sheet1", "")
		field(h, "source_column", "Source column", "text", "Text", "")
		field(h, "destination_column", "Destination column", "text", "", p.DefaultDestination)
		h.raw(`<button type="submit">Detect language</button></form><div id="job"></div>`)
	})
}

// LoginRequired asks the user to sign in.
func LoginRequired(loginEnabled bool) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="notice">`)
		if loginEnabled {
			h.raw(`<p>This tool edits spreadsheets on your behalf.</p><a class="button" href="/login">Sign in with Google</a>`)
		} else {
			h.raw(`<p>Google sign-in is not configured on this server.</p>`)
		}
		h.raw(`</div>`)
	})
}

func toolHeader(h *html, t core.Tool) {
	h.raw(`<h1><span class="icon">`)
	h.text(t.Icon)
	h.raw(`</span> `)
	h.text(t.Name)
	h.raw(`</h1><p class="lead">`)
	h.text(t.Description)
	h.raw(`</p>`)
}

func field(h *html, name, label, typ, placeholder, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.rawf(`<input type="%s" name="%s" placeholder="%s" value="%s" required></label>`,
		attr(typ), attr(name), attr(placeholder), attr(value))
}
