package web

import (
	"net/http"

	"github.com/JonMunkholm/seokit/internal/auth"
	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/history"
	"github.com/JonMunkholm/seokit/internal/web/templates"
)

// handleHealth reports liveness and job slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"jobs":   s.service.LimiterStatus(),
	})
}

// toolResponse is the API view of a registered tool.
type toolResponse struct {
	Key                   string   `json:"key"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Path                  string   `json:"path"`
	RequiresLogin         bool     `json:"requires_login"`
	AcceptsServiceAccount bool     `json:"accepts_service_account"`
	Stages                []string `json:"stages"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.service.Tools()
	out := make([]toolResponse, 0, len(tools))
	for _, t := range tools {
		out = append(out, toTool(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func toTool(t core.Tool) toolResponse {
	return toolResponse{
		Key:                   t.Key,
		Name:                  t.Name,
		Description:           t.Description,
		Path:                  t.Path,
		RequiresLogin:         t.RequiresLogin,
		AcceptsServiceAccount: t.AcceptsServiceAccount,
		Stages:                t.Stages,
	}
}

// historyResponse is the API view of a history entry.
type historyResponse struct {
	ID            string `json:"id"`
	Tool          string `json:"tool"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	Worksheet     string `json:"worksheet"`
	Columns       string `json:"columns"`
	Rows          int    `json:"rows"`
	Groups        int    `json:"groups,omitempty"`
	Ranges        int    `json:"ranges,omitempty"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	DurationMS    int64  `json:"duration_ms"`
	CreatedAt     string `json:"created_at"`
}

// handleHistory lists the signed-in user's runs, optionally filtered by
// ?tool=.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, r, auth.ErrNoSession, http.StatusUnauthorized)
		return
	}

	entries, err := s.service.ListHistory(r.Context(), history.Filter{
		UserEmail: user.Email,
		Tool:      r.URL.Query().Get("tool"),
		Limit:     s.cfg.History.PageSize,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if isHTMX(r) {
		renderPartial(w, r, http.StatusOK, templates.HistoryTable(entries))
		return
	}

	out := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyResponse{
			ID:            e.ID,
			Tool:          e.Tool,
			SpreadsheetID: e.SpreadsheetID,
			Worksheet:     e.Worksheet,
			Columns:       e.Columns,
			Rows:          e.Rows,
			Groups:        e.Groups,
			Ranges:        e.Ranges,
			Status:        e.Status,
			Error:         e.Error,
			DurationMS:    e.Duration.Milliseconds(),
			CreatedAt:     e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
