package gsheet

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	ErrInvalidDocumentURL  = errors.New("invalid document URL")
	ErrWorksheetNotFound   = errors.New("worksheet not found")
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// classify maps Sheets API status codes onto package errors, keeping the
// original error in the chain.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, ErrSpreadsheetNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, ErrPermissionDenied, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
