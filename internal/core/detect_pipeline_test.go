package core

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/seokit/internal/highlight"
	"github.com/JonMunkholm/seokit/internal/langdetect"
	"github.com/JonMunkholm/seokit/internal/pipeline"
)

// upperDetector labels text by its upper-cased first word.
type upperDetector struct{}

func (upperDetector) Label(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return strings.ToUpper(strings.Fields(text)[0])
}

func textSheet() *fakeSheet {
	return newFakeSheet([]string{"Text", "Other"},
		[]string{"en hello", "x"},
		[]string{"fr bonjour", "x"},
		[]string{"", "x"},
		[]string{"en world", "x"},
		[]string{"de hallo", "x"},
	)
}

func TestRunDetectLanguage(t *testing.T) {
	ws := textSheet()
	req := DetectRequest{
		Credentials:       testCreds,
		DocumentURL:       testDocumentURL,
		Worksheet:         "Data",
		SourceColumn:      "Text",
		DestinationColumn: "Detected Language",
	}

	res, err := RunDetectLanguage(context.Background(), connectTo(ws), req, upperDetector{}, 2, nil)
	if err != nil {
		t.Fatalf("RunDetectLanguage() error = %v", err)
	}

	if ws.appended != 1 {
		t.Errorf("AppendColumn called %d times, want 1", ws.appended)
	}
	want := []columnWrite{
		{3, 1, []string{"Detected Language"}},
		{3, 2, []string{"EN", "FR"}},
		{3, 4, []string{"", "EN"}},
		{3, 6, []string{"DE"}},
	}
	if !reflect.DeepEqual(ws.writes, want) {
		t.Errorf("writes = %v, want %v", ws.writes, want)
	}

	if res.Rows != 5 || res.Written != 5 {
		t.Errorf("rows/written = %d/%d, want 5/5", res.Rows, res.Written)
	}
	wantLangs := []LanguageCount{{"EN", 2}, {"DE", 1}, {"FR", 1}}
	if !reflect.DeepEqual(res.Languages, wantLangs) {
		t.Errorf("languages = %v, want %v", res.Languages, wantLangs)
	}
}

func TestRunDetectLanguage_ExistingDestination(t *testing.T) {
	ws := newFakeSheet([]string{"Lang", "Text"}, []string{"old", "en one"})
	req := DetectRequest{Worksheet: "Data", SourceColumn: "Text", DestinationColumn: "Lang"}

	if _, err := RunDetectLanguage(context.Background(), connectTo(ws), req, upperDetector{}, 0, nil); err != nil {
		t.Fatalf("RunDetectLanguage() error = %v", err)
	}
	if ws.appended != 0 {
		t.Errorf("AppendColumn called %d times, want 0", ws.appended)
	}
	if len(ws.writes) != 2 || ws.writes[1].column != 1 {
		t.Errorf("writes = %v, want header and values in column 1", ws.writes)
	}
}

func TestRunDetectLanguage_Failures(t *testing.T) {
	writeErr := errors.New("values.batchUpdate: 503")

	tests := []struct {
		name      string
		sheet     func() *fakeSheet
		source    string
		wantErr   error
		wantStage string
	}{
		{"missing source column", textSheet, "Body", highlight.ErrColumnNotFound, "Data extraction"},
		{
			name: "repeated destination header",
			sheet: func() *fakeSheet {
				return newFakeSheet([]string{"Text", "Lang", "Lang"}, []string{"en one", "", ""})
			},
			source:    "Text",
			wantErr:   highlight.ErrDuplicateColumn,
			wantStage: "Data extraction",
		},
		{
			name: "write error",
			sheet: func() *fakeSheet {
				ws := textSheet()
				ws.writeErr = writeErr
				return ws
			},
			source:    "Text",
			wantErr:   writeErr,
			wantStage: "Writing results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DetectRequest{Worksheet: "Data", SourceColumn: tt.source, DestinationColumn: "Lang"}
			res, err := RunDetectLanguage(context.Background(), connectTo(tt.sheet()), req, upperDetector{}, 10, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var se *pipeline.StageError
			if !errors.As(err, &se) || se.Stage != tt.wantStage {
				t.Errorf("failed stage = %v, want %q", err, tt.wantStage)
			}
			if res == nil || res.Written != 0 {
				t.Errorf("result = %+v, want non-nil with nothing written", res)
			}
		})
	}
}

func TestRunDetectLanguage_DefaultDetector(t *testing.T) {
	ws := newFakeSheet([]string{"Text"},
		[]string{"The quick brown fox jumps over the lazy dog while the farmer watches from the porch."},
		[]string{"   "},
		[]string{"12345"},
	)
	req := DetectRequest{Worksheet: "Data", SourceColumn: "Text", DestinationColumn: "Lang"}

	if _, err := RunDetectLanguage(context.Background(), connectTo(ws), req, nil, 0, nil); err != nil {
		t.Fatalf("RunDetectLanguage() error = %v", err)
	}
	values := ws.writes[1].values
	if values[0] != "English (en)" {
		t.Errorf("label = %q, want English (en)", values[0])
	}
	if values[1] != "" {
		t.Errorf("blank cell label = %q, want empty", values[1])
	}
	if values[2] != langdetect.Unknown.String() {
		t.Errorf("digits label = %q, want %q", values[2], langdetect.Unknown.String())
	}
}

func TestCountLanguages(t *testing.T) {
	if got := countLanguages([]string{"", ""}); got != nil {
		t.Errorf("countLanguages(empty labels) = %v, want nil", got)
	}
	got := countLanguages([]string{"b", "a", "b", "c", "a", "b"})
	want := []LanguageCount{{"b", 3}, {"a", 2}, {"c", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countLanguages() = %v, want %v", got, want)
	}
}
