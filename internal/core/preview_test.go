package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/workbook"
)

func TestPreviewHighlight(t *testing.T) {
	svc := newTestService(t, connectTo(nil), nil)

	got, err := svc.PreviewHighlight(context.Background(),
		strings.NewReader("Metric,Value\na,1\na,2\nb,3\n"), "Metric")
	if err != nil {
		t.Fatalf("PreviewHighlight() error = %v", err)
	}
	if got.Rows != 3 || got.Groups != 2 || got.Ranges != 2 {
		t.Errorf("rows/groups/ranges = %d/%d/%d, want 3/2/2", got.Rows, got.Groups, got.Ranges)
	}
	if len(got.Preview) != 2 || got.Preview[0].Range != "A2:B3" || got.Preview[0].Value != "a" {
		t.Errorf("preview = %+v", got.Preview)
	}

	f, err := excelize.OpenReader(bytes.NewReader(got.Workbook))
	if err != nil {
		t.Fatalf("workbook is not XLSX: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(workbook.SheetName, "A4"); v != "b" {
		t.Errorf("A4 = %q, want b", v)
	}
}

func TestPreviewHighlight_Errors(t *testing.T) {
	svc := newTestService(t, connectTo(nil), nil)

	tests := []struct {
		name    string
		csv     string
		column  string
		wantErr error
	}{
		{"missing column name", "Metric\na\n", "", ErrMissingField},
		{"unknown column", "Metric\na\n", "Nope", highlight.ErrColumnNotFound},
		{"empty file", "", "Metric", workbook.ErrEmptyCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PreviewHighlight(context.Background(), strings.NewReader(tt.csv), tt.column)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
