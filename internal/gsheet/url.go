package gsheet

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	documentPathRe  = regexp.MustCompile(`^/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	spreadsheetIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)
)

// ParseDocumentURL extracts the spreadsheet id from a Google Sheets URL such
// as https://docs.google.com/spreadsheets/d/<id>/edit#gid=0. A bare id is
// accepted as well.
func ParseDocumentURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDocumentURL)
	}
	if spreadsheetIDRe.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocumentURL, err)
	}
	if u.Host != "docs.google.com" {
		return "", fmt.Errorf("%w: unexpected host %q", ErrInvalidDocumentURL, u.Host)
	}
	m := documentPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("%w: no spreadsheet id in %q", ErrInvalidDocumentURL, u.Path)
	}
	return m[1], nil
}
