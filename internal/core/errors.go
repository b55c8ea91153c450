package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/seokit/internal/gsheet"
)

var (
	// ErrJobNotFound is returned for unknown or expired job ids.
	ErrJobNotFound = errors.New("job not found")

	// ErrNoCredentials is returned when a request carries neither a
	// service-account key nor a signed-in user.
	ErrNoCredentials = errors.New("login required: no credentials provided")

	// ErrMissingField is returned by request validation.
	ErrMissingField = errors.New("missing required field")
)

// Validate checks that every field of the highlight form is present.
func (r HighlightRequest) Validate() error {
	if err := requireFields(map[string]string{
		"document_url": r.DocumentURL,
		"worksheet":    r.Worksheet,
		"group_column": r.GroupColumn,
	}); err != nil {
		return err
	}
	if _, err := gsheet.ParseDocumentURL(r.DocumentURL); err != nil {
		return err
	}
	if r.Credentials.Empty() {
		return ErrNoCredentials
	}
	return nil
}

// Validate checks that every field of the detect form is present.
func (r DetectRequest) Validate() error {
	if err := requireFields(map[string]string{
		"document_url":       r.DocumentURL,
		"worksheet":          r.Worksheet,
		"source_column":      r.SourceColumn,
		"destination_column": r.DestinationColumn,
	}); err != nil {
		return err
	}
	if _, err := gsheet.ParseDocumentURL(r.DocumentURL); err != nil {
		return err
	}
	if r.Credentials.Empty() {
		return ErrNoCredentials
	}
	return nil
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}
