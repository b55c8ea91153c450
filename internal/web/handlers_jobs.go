package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/seokit/internal/auth"
	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/web/templates"
)

var (
	errInvalidForm  = errors.New("invalid form")
	errFileTooLarge = errors.New("file too large")
)

// handleStartHighlight starts a Highlight Rows job. Credentials come from
// an uploaded service-account key or, failing that, the session.
func (s *Server) handleStartHighlight(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	creds, err := s.credentials(r, true)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	req := core.HighlightRequest{
		Credentials: creds,
		DocumentURL: strings.TrimSpace(r.FormValue("document_url")),
		Worksheet:   r.FormValue("worksheet"),
		GroupColumn: r.FormValue("group_column"),
		UserEmail:   currentEmail(r),
	}

	jobID, err := s.service.StartHighlight(WithRequestMetadata(r.Context(), r), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.respondJobStarted(w, r, jobID, core.ToolHighlightRows)
}

// handleStartDetect starts a Detect Language job for the signed-in user.
func (s *Server) handleStartDetect(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	creds, err := s.credentials(r, false)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	dest := strings.TrimSpace(r.FormValue("destination_column"))
	if dest == "" {
		dest = s.cfg.Detect.DefaultDestination
	}
	req := core.DetectRequest{
		Credentials:       creds,
		DocumentURL:       strings.TrimSpace(r.FormValue("document_url")),
		Worksheet:         r.FormValue("worksheet"),
		SourceColumn:      r.FormValue("source_column"),
		DestinationColumn: dest,
		UserEmail:         currentEmail(r),
	}

	jobID, err := s.service.StartDetectLanguage(WithRequestMetadata(r.Context(), r), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.respondJobStarted(w, r, jobID, core.ToolDetectLanguage)
}

func (s *Server) respondJobStarted(w http.ResponseWriter, r *http.Request, jobID, toolKey string) {
	if isHTMX(r) {
		tool, _ := core.Get(toolKey)
		renderPartial(w, r, http.StatusAccepted, templates.JobStarted(jobID, tool))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// progressEvent adds the completion percentage to the progress payload.
type progressEvent struct {
	core.JobProgress
	Percent int `json:"percent"`
}

// handleJobProgress streams job progress via Server-Sent Events.
// The event ID is the percentage, so a reconnecting client that sends
// Last-Event-ID skips updates it has already seen.
func (s *Server) handleJobProgress(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.authorizeJob(w, r, jobID) {
		return
	}

	lastEventID := r.Header.Get("Last-Event-ID")
	if lastEventID == "" {
		lastEventID = r.URL.Query().Get("lastEventId")
	}
	resumeFrom, resumed := -1, false
	if n, err := strconv.Atoi(lastEventID); err == nil {
		resumeFrom, resumed = n, true
	}

	progressCh, err := s.service.SubscribeProgress(jobID)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				fmt.Fprint(w, "event: complete\ndata: {}\n\n")
				rc.Flush()
				return
			}

			pct := progress.Percent()
			if resumed && pct <= resumeFrom && !progress.Phase.Finished() {
				continue
			}
			data, err := json.Marshal(progressEvent{JobProgress: progress, Percent: pct})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", pct, data)
			if err := rc.Flush(); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

// handleJobStatus returns the current progress of one job, or the job slot
// usage when no id is given.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		writeJSON(w, http.StatusOK, s.service.LimiterStatus())
		return
	}
	if !s.authorizeJob(w, r, jobID) {
		return
	}
	p, err := s.service.GetJobProgress(jobID)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, progressEvent{JobProgress: p, Percent: p.Percent()})
}

// handleJobResult returns the final result, waiting for the job to finish
// within the request timeout.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.authorizeJob(w, r, jobID) {
		return
	}

	res, err := s.service.GetJobResult(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.respondError(w, r, err, http.StatusGatewayTimeout)
			return
		}
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		renderPartial(w, r, http.StatusOK, templates.JobResult(res))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.authorizeJob(w, r, jobID) {
		return
	}
	if err := s.service.CancelJob(jobID); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// authorizeJob hides jobs started by another signed-in user. Jobs started
// anonymously with a service-account key are visible to anyone holding
// the id.
func (s *Server) authorizeJob(w http.ResponseWriter, r *http.Request, jobID string) bool {
	if jobID == "" {
		s.respondError(w, r, fmt.Errorf("%w: job id", core.ErrMissingField), http.StatusBadRequest)
		return false
	}
	owner, err := s.service.JobOwner(jobID)
	if err != nil {
		s.respondError(w, r, err, 0)
		return false
	}
	if owner != "" && owner != currentEmail(r) {
		s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrJobNotFound, jobID), http.StatusNotFound)
		return false
	}
	return true
}

// parseForm reads a multipart or urlencoded form, capped at the upload
// size limit.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxSize)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit %d bytes", errFileTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", errInvalidForm, err)
}

// credentials picks the uploaded service-account key when allowed and
// present, otherwise the session token. The token source outlives the
// request because jobs keep running after the response.
func (s *Server) credentials(r *http.Request, allowKey bool) (core.Credentials, error) {
	if allowKey && r.MultipartForm != nil {
		file, _, err := r.FormFile("credentials")
		switch {
		case err == nil:
			defer file.Close()
			key, err := io.ReadAll(file)
			if err != nil {
				return core.Credentials{}, fmt.Errorf("%w: %v", errInvalidForm, err)
			}
			if len(key) > 0 {
				return core.Credentials{ServiceAccountKey: key}, nil
			}
		case !errors.Is(err, http.ErrMissingFile):
			return core.Credentials{}, fmt.Errorf("%w: %v", errInvalidForm, err)
		}
	}

	sess := auth.SessionFromContext(r.Context())
	if sess == nil || s.provider == nil {
		return core.Credentials{}, nil
	}
	return core.Credentials{
		TokenSource: s.provider.TokenSource(context.WithoutCancel(r.Context()), sess.Token),
	}, nil
}

func currentEmail(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return user.Email
	}
	return ""
}
