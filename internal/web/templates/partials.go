package templates

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/history"
)

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="alert error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<small>Code: `)
			h.text(code)
			h.raw(`</small>`)
		}
		h.raw(`</div>`)
	})
}

// JobStarted is the progress panel shown once a job is accepted. The
// script in app.js subscribes to the progress stream named by
// data-progress.
func JobStarted(jobID string, tool core.Tool) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.rawf(`<div class="job" data-job-id="%s" data-progress="/api/jobs/%s/progress" data-result="/api/jobs/%s/result">`,
			attr(jobID), attr(jobID), attr(jobID))
		h.raw(`<div class="bar"><div class="fill" style="width:0%"></div></div><ol class="stages">`)
		for _, name := range tool.Stages {
			h.raw(`<li class="pending">`)
			h.text(name)
			h.raw(`</li>`)
		}
		h.rawf(`</ol><form method="post" action="/api/jobs/%s/cancel" data-cancel><button type="submit">Cancel</button></form>`, attr(jobID))
		h.raw(`<div class="result"></div></div>`)
	})
}

// JobResult summarises a finished job.
func JobResult(res *core.JobResult) templ.Component {
	return component(func(ctx context.Context, h *html) {
		switch {
		case res.Cancelled:
			h.raw(`<div class="alert">The job was cancelled.</div>`)
			return
		case res.Error != "":
			h.component(ctx, ErrorAlert(res.Error, res.ErrorAction, res.ErrorCode))
			return
		}

		h.raw(`<div class="alert success"><strong>Done</strong> in `)
		h.text(res.Duration.Round(time.Millisecond).String())
		h.raw(`<ul>`)
		item(h, "Worksheet", res.Worksheet)
		item(h, "Rows", strconv.Itoa(res.Rows))
		switch res.Tool {
		case core.ToolHighlightRows:
			item(h, "Groups", strconv.Itoa(res.Groups))
			item(h, "Ranges", strconv.Itoa(res.Ranges))
		case core.ToolDetectLanguage:
			item(h, "Written to", res.Column)
		}
		h.raw(`</ul></div>`)

		if len(res.Preview) > 0 {
			h.raw(`<table class="preview"><thead><tr><th>Range</th><th>Value</th><th>Color</th></tr></thead><tbody>`)
			for _, p := range res.Preview {
				h.raw(`<tr><td>`)
				h.text(p.Range)
				h.raw(`</td><td>`)
				h.text(p.Value)
				h.rawf(`</td><td><span class="swatch" style="background:%s"></span>`, attr(p.Color))
				h.text(p.Color)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		if len(res.Languages) > 0 {
			h.raw(`<table class="languages"><thead><tr><th>Language</th><th>Rows</th></tr></thead><tbody>`)
			for _, l := range res.Languages {
				h.raw(`<tr><td>`)
				h.text(l.Label)
				h.raw(`</td><td>`)
				h.text(strconv.Itoa(l.Rows))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
	})
}

// HistoryTable lists recorded runs, newest first.
func HistoryTable(entries []history.Entry) templ.Component {
	return component(func(_ context.Context, h *html) {
		if len(entries) == 0 {
			h.raw(`<p class="empty">No runs yet.</p>`)
			return
		}
		h.raw(`<table class="history"><thead><tr><th>When</th><th>Tool</th><th>Worksheet</th><th>Columns</th>`)
		h.raw(`<th>Rows</th><th>Ranges</th><th>Status</th><th>Duration</th></tr></thead><tbody>`)
		for _, e := range entries {
			h.raw(`<tr><td>`)
			h.text(e.CreatedAt.Format("2006-01-02 15:04"))
			h.raw(`</td><td>`)
			h.text(e.Tool)
			h.raw(`</td><td>`)
			h.text(e.Worksheet)
			h.raw(`</td><td>`)
			h.text(e.Columns)
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(e.Rows))
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(e.Ranges))
			h.rawf(`</td><td class="status %s">`, attr(e.Status))
			h.text(e.Status)
			h.raw(`</td><td>`)
			h.text(e.Duration.Round(time.Millisecond).String())
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// HistoryPage wraps the history table with a heading.
func HistoryPage(entries []history.Entry) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h1>Recent runs</h1>`)
		h.component(ctx, HistoryTable(entries))
	})
}

func item(h *html, label, value string) {
	if value == "" {
		return
	}
	h.raw(`<li>`)
	h.text(label)
	h.raw(`: `)
	h.text(value)
	h.raw(`</li>`)
}
