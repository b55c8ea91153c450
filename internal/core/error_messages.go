package core

// error_messages.go maps technical errors to user-friendly messages.
//
// # Error Codes Reference
//
// When users encounter errors, they can quote the error code to support
// staff for faster diagnosis. Codes are grouped by category:
//
// # Highlighting Errors (COL, RNG, CLR)
//
//	COL001 - Column not found: The group column is not in the header row
//	         Action: Check the column name matches the header exactly
//	         Patterns: "column not found"
//
//	COL002 - Duplicate column: The header names the column more than once
//	         Action: Rename one of the columns so each header is unique
//	         Patterns: "duplicate column"
//
//	RNG001 - Invalid positions: Row positions could not be compressed
//	         Action: Please try again or contact support
//	         Patterns: "invalid positions"
//
//	CLR001 - Palette exhausted: More groups than distinct colors
//	         Action: Group on a column with fewer distinct values
//	         Patterns: "color palette exhausted"
//
//	CLR002 - Invalid palette: The configured color palette is unusable
//	         Action: Fix HIGHLIGHT_PALETTE and restart
//	         Patterns: "invalid palette"
//
// # Spreadsheet Errors (SHT001-SHT099)
//
//	SHT001 - Worksheet not found: No tab with that title
//	         Action: Check the worksheet name, it is case sensitive
//	         Patterns: "worksheet not found"
//
//	SHT002 - Invalid URL: The document URL is not a Google Sheets link
//	         Action: Paste the full URL from the browser address bar
//	         Patterns: "invalid document url"
//
//	SHT003 - Permission denied: The account cannot edit the spreadsheet
//	         Action: Share the spreadsheet with the account as an editor
//	         Patterns: "permission denied"
//
//	SHT004 - Spreadsheet not found: No spreadsheet with that id
//	         Action: Check the document URL
//	         Patterns: "spreadsheet not found"
//
// # Authentication Errors (AUTH001-AUTH099)
//
//	AUTH001 - Login required: No signed-in user or credentials
//	          Action: Sign in with Google or upload a service account key
//	          Patterns: "login required", "no session", "sealed value rejected"
//
//	AUTH002 - Invalid credentials: Google rejected the credentials
//	          Action: Sign in again or upload a valid service account key
//	          Patterns: "invalid credentials"
//
//	AUTH003 - Sign-in failed: The OAuth code exchange failed
//	          Action: Please sign in again
//	          Patterns: "oauth exchange failed"
//
// # Job Errors (JOB001-JOB099, REQ001-REQ002)
//
//	JOB001 - System busy: Too many jobs in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many jobs"
//
//	JOB002 - Job not found: The job is unknown or has expired
//	         Action: Start the tool again
//	         Patterns: "job not found"
//
//	JOB003 - Cancelled: The job was cancelled
//	         Action: Start the tool again when ready
//	         Patterns: "context canceled"
//
//	JOB004 - Timeout: The job took too long
//	         Action: Try a smaller worksheet or try again later
//	         Patterns: "context deadline exceeded"
//
//	REQ001 - Missing field: A required form field is empty
//	         Action: Fill in every field of the form
//	         Patterns: "missing required field"
//
//	REQ002 - Invalid form: The submitted form could not be parsed
//	         Action: Reload the page and submit again
//	         Patterns: "invalid form"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: The upload exceeds the size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large"
//
//	FILE002 - No file: No file was selected
//	          Action: Please select a file to upload
//	          Patterns: "no file provided"
//
//	FILE003 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure the file is comma-separated with a header row
//	          Patterns: "invalid csv", "csv has no header row"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// To add a pattern, pick the category code and update the reference above.
var errorPatterns = []errorPattern{
	// Highlighting
	{"column not found", UserMessage{
		Message: "Column not found in the header row",
		Action:  "Check the column name matches the header exactly",
		Code:    "COL001",
	}},
	{"duplicate column", UserMessage{
		Message: "The column name appears more than once in the header row",
		Action:  "Rename one of the columns so each header is unique",
		Code:    "COL002",
	}},
	{"invalid positions", UserMessage{
		Message: "Row positions could not be grouped into ranges",
		Action:  "Please try again or contact support",
		Code:    "RNG001",
	}},
	{"color palette exhausted", UserMessage{
		Message: "There are more groups than available colors",
		Action:  "Group on a column with fewer distinct values",
		Code:    "CLR001",
	}},
	{"invalid palette", UserMessage{
		Message: "The configured color palette is invalid",
		Action:  "Fix HIGHLIGHT_PALETTE and restart",
		Code:    "CLR002",
	}},

	// Spreadsheet access
	{"worksheet not found", UserMessage{
		Message: "Worksheet not found",
		Action:  "Check the worksheet name, it is case sensitive",
		Code:    "SHT001",
	}},
	{"invalid document url", UserMessage{
		Message: "This is not a Google Sheets document URL",
		Action:  "Paste the full URL from the browser address bar",
		Code:    "SHT002",
	}},
	{"permission denied", UserMessage{
		Message: "You do not have permission to edit this spreadsheet",
		Action:  "Share the spreadsheet with your account as an editor",
		Code:    "SHT003",
	}},
	{"spreadsheet not found", UserMessage{
		Message: "Spreadsheet not found",
		Action:  "Check the document URL",
		Code:    "SHT004",
	}},

	// Authentication
	{"login required", UserMessage{
		Message: "You need to sign in first",
		Action:  "Sign in with Google or upload a service account key",
		Code:    "AUTH001",
	}},
	{"no session", UserMessage{
		Message: "You need to sign in first",
		Action:  "Sign in with Google",
		Code:    "AUTH001",
	}},
	{"sealed value rejected", UserMessage{
		Message: "Your session has expired",
		Action:  "Sign in with Google",
		Code:    "AUTH001",
	}},
	{"invalid credentials", UserMessage{
		Message: "Google rejected the credentials",
		Action:  "Sign in again or upload a valid service account key",
		Code:    "AUTH002",
	}},
	{"oauth exchange failed", UserMessage{
		Message: "Sign-in with Google failed",
		Action:  "Please sign in again",
		Code:    "AUTH003",
	}},

	// Jobs
	{"too many jobs", UserMessage{
		Message: "System is busy processing other jobs",
		Action:  "Please wait a moment and try again",
		Code:    "JOB001",
	}},
	{"job not found", UserMessage{
		Message: "Job not found",
		Action:  "The job may have expired. Please start the tool again",
		Code:    "JOB002",
	}},
	{"context canceled", UserMessage{
		Message: "The job was cancelled",
		Action:  "Start the tool again when ready",
		Code:    "JOB003",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "The job timed out",
		Action:  "Try a smaller worksheet or try again later",
		Code:    "JOB004",
	}},
	{"missing required field", UserMessage{
		Message: "A required field is empty",
		Action:  "Fill in every field of the form",
		Code:    "REQ001",
	}},
	{"invalid form", UserMessage{
		Message: "The form could not be read",
		Action:  "Reload the page and submit again",
		Code:    "REQ002",
	}},

	// Files
	{"file too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a file to upload",
		Code:    "FILE002",
	}},
	{"invalid csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with a header row",
		Code:    "FILE003",
	}},
	{"csv has no header row", UserMessage{
		Message: "The CSV file is empty",
		Action:  "Ensure the file is comma-separated with a header row",
		Code:    "FILE003",
	}},

	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first case-insensitive pattern match, or ERR000.
//
// Example:
//
//	msg := MapError(fmt.Errorf("open: %w", gsheet.ErrWorksheetNotFound))
//	// msg.Code == "SHT001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
