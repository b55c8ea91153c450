package gsheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client opens worksheets through an authenticated Sheets service.
type Client struct {
	svc *sheets.Service
}

// NewClient wraps an existing Sheets service.
func NewClient(svc *sheets.Service) *Client {
	return &Client{svc: svc}
}

// NewServiceAccountClient authenticates with a service-account JSON key.
func NewServiceAccountClient(ctx context.Context, key []byte) (*Client, error) {
	cfg, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.Debug("sheets client created", "auth", "service_account", "email", cfg.Email)
	return &Client{svc: svc}, nil
}

// NewTokenClient authenticates as a signed-in user.
func NewTokenClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.Debug("sheets client created", "auth", "user_token")
	return &Client{svc: svc}, nil
}

// Open resolves documentURL and returns the worksheet whose tab title is
// title.
func (c *Client) Open(ctx context.Context, documentURL, title string) (*Worksheet, error) {
	id, err := ParseDocumentURL(documentURL)
	if err != nil {
		return nil, err
	}

	ss, err := c.svc.Spreadsheets.Get(id).
		Fields("spreadsheetId,properties.title,sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("get spreadsheet", err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties == nil || sh.Properties.Title != title {
			continue
		}
		ws := &Worksheet{
			svc:           c.svc,
			spreadsheetID: id,
			sheetID:       sh.Properties.SheetId,
			title:         title,
		}
		if gp := sh.Properties.GridProperties; gp != nil {
			ws.rowCount = int(gp.RowCount)
			ws.columnCount = int(gp.ColumnCount)
		}
		return ws, nil
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrWorksheetNotFound, title, strings.Join(titles, ", "))
}
