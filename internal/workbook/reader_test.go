package workbook

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestCleanReader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "a,b\n1,2\n", "a,b\n1,2\n"},
		{"bom stripped", "\xEF\xBB\xBFa,b\n", "a,b\n"},
		{"bom only at start", "a\xEF\xBB\xBF", "a\xEF\xBB\xBF"},
		{"valid multibyte kept", "café,日本\n", "café,日本\n"},
		{"latin-1 byte replaced", "caf\xE9,x\n", "caf?,x\n"},
		{"truncated sequence at EOF", "ok\xE6\x97", "ok??"},
		{"short input", "a", "a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(cleanReader(strings.NewReader(tt.in)))
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanReader_SplitRunes(t *testing.T) {
	// One byte per read splits every multi-byte rune across reads.
	in := "日本語,ß\n"
	got, err := io.ReadAll(cleanReader(iotest.OneByteReader(strings.NewReader(in))))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != in {
		t.Errorf("got %q, want %q", got, in)
	}
}
