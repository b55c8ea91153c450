package gsheet

import (
	"errors"
	"testing"
)

func TestParseDocumentURL(t *testing.T) {
	const id = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/" + id + "/edit#gid=0", id, false},
		{"no suffix", "https://docs.google.com/spreadsheets/d/" + id, id, false},
		{"bare id", id, id, false},
		{"padded", "  https://docs.google.com/spreadsheets/d/" + id + "/edit  ", id, false},
		{"empty", "", "", true},
		{"wrong host", "https://example.com/spreadsheets/d/" + id, "", true},
		{"docs url", "https://docs.google.com/document/d/" + id + "/edit", "", true},
		{"garbage", "not a url", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDocumentURL(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDocumentURL) {
					t.Errorf("error = %v, want ErrInvalidDocumentURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocumentURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDocumentURL = %q, want %q", got, tt.want)
			}
		})
	}
}
