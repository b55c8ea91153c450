package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/seokit/internal/logging"
)

var errNoFile = errors.New("no file provided")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handlePreviewHighlight highlights an uploaded CSV and returns it as an
// XLSX download. Summary counts are sent as X-Highlight-* headers.
func (s *Server) handlePreviewHighlight(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	preview, err := s.service.PreviewHighlight(r.Context(), file, r.FormValue("group_column"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.FromContext(r.Context()).Info("preview rendered",
		"file", header.Filename,
		"rows", preview.Rows,
		"groups", preview.Groups,
		"ranges", preview.Ranges,
	)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, previewFilename(header.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(preview.Workbook)))
	w.Header().Set("X-Highlight-Rows", strconv.Itoa(preview.Rows))
	w.Header().Set("X-Highlight-Groups", strconv.Itoa(preview.Groups))
	w.Header().Set("X-Highlight-Ranges", strconv.Itoa(preview.Ranges))
	w.WriteHeader(http.StatusOK)
	w.Write(preview.Workbook)
}

// previewFilename derives the download name from the upload name.
func previewFilename(upload string) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r < 0x20:
			return -1
		default:
			return r
		}
	}, base)
	if base == "" || base == "." {
		base = "highlighted_" + time.Now().Format("20060102_150405")
	}
	return base + "_highlighted.xlsx"
}
