package core

import (
	"context"

	"github.com/JonMunkholm/seokit/internal/gsheet"
	"github.com/JonMunkholm/seokit/internal/highlight"
)

// Worksheet is the spreadsheet tab a tool works on.
type Worksheet interface {
	highlight.Applier

	Title() string
	SpreadsheetID() string
	ColumnCount() int
	Records(ctx context.Context) (highlight.Dataset, error)
	AppendColumn(ctx context.Context) error
	WriteColumn(ctx context.Context, column, startRow int, values []string) error
}

// Opener resolves a document URL and tab title to a Worksheet.
type Opener interface {
	Open(ctx context.Context, documentURL, title string) (Worksheet, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, documentURL, title string) (Worksheet, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, documentURL, title string) (Worksheet, error) {
	return f(ctx, documentURL, title)
}

// Connector authenticates with creds and returns an Opener. It is called
// from inside the job so token refreshes are bound to the job's context.
type Connector func(ctx context.Context, creds Credentials) (Opener, error)

// ConnectGoogle is the production Connector backed by the Sheets API.
func ConnectGoogle(ctx context.Context, creds Credentials) (Opener, error) {
	var (
		client *gsheet.Client
		err    error
	)
	switch {
	case len(creds.ServiceAccountKey) > 0:
		client, err = gsheet.NewServiceAccountClient(ctx, creds.ServiceAccountKey)
	case creds.TokenSource != nil:
		client, err = gsheet.NewTokenClient(ctx, creds.TokenSource)
	default:
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}
	return OpenerFunc(func(ctx context.Context, documentURL, title string) (Worksheet, error) {
		ws, err := client.Open(ctx, documentURL, title)
		if err != nil {
			return nil, err
		}
		return ws, nil
	}), nil
}
