package web

import (
	"context"
	"sync"

	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/gsheet"
	"github.com/JonMunkholm/seokit/internal/highlight"
)

const testDocumentURL = "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit"

// memSheet is an in-memory worksheet named "Data".
type memSheet struct {
	mu      sync.Mutex
	columns int
	data    highlight.Dataset
	applied []highlight.ColoredRange
	written map[int][]string
}

func newMemSheet(header []string, rows ...[]string) *memSheet {
	return &memSheet{
		columns: len(header),
		data:    highlight.NewDataset(header, rows),
		written: make(map[int][]string),
	}
}

func (m *memSheet) Title() string         { return "Data" }
func (m *memSheet) SpreadsheetID() string { return "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" }

func (m *memSheet) ColumnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.columns
}

func (m *memSheet) Records(context.Context) (highlight.Dataset, error) {
	return m.data, nil
}

func (m *memSheet) AppendColumn(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.columns++
	return nil
}

func (m *memSheet) WriteColumn(_ context.Context, column, _ int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[column] = append(m.written[column], values...)
	return nil
}

func (m *memSheet) Apply(_ context.Context, ranges []highlight.ColoredRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, ranges...)
	return nil
}

func connectMem(ws *memSheet) core.Connector {
	return func(_ context.Context, creds core.Credentials) (core.Opener, error) {
		if creds.Empty() {
			return nil, core.ErrNoCredentials
		}
		return core.OpenerFunc(func(_ context.Context, _ string, title string) (core.Worksheet, error) {
			if title != ws.Title() {
				return nil, gsheet.ErrWorksheetNotFound
			}
			return ws, nil
		}), nil
	}
}

// labelDetector tags every text with a fixed label.
type labelDetector string

func (d labelDetector) Label(text string) string {
	if text == "" {
		return ""
	}
	return string(d)
}
