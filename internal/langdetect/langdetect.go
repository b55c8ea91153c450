// Package langdetect identifies the natural language of short texts.
package langdetect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
)

var (
	// ErrEmptyText is returned for empty or whitespace-only input.
	ErrEmptyText = errors.New("empty text")

	// ErrUndetectable is returned when no language can be identified with
	// enough confidence.
	ErrUndetectable = errors.New("language not detectable")
)

// Unknown is written for texts whose language cannot be identified.
var Unknown = Result{Name: "Unknown", Code: "und"}

// Result is a detected language.
type Result struct {
	Name       string
	Code       string
	Confidence float64
}

// String renders the result as "Name (code)", e.g. "English (en)".
func (r Result) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Code)
}

// Detector wraps whatlanggo with a confidence floor.
type Detector struct {
	minConfidence float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithMinConfidence rejects detections below c (0..1). Zero accepts any
// detection.
func WithMinConfidence(c float64) Option {
	return func(d *Detector) {
		d.minConfidence = c
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the language of text.
func (d *Detector) Detect(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyText
	}

	info := whatlanggo.Detect(text)
	if info.Lang < 0 || info.Lang.String() == "" {
		return Result{}, ErrUndetectable
	}
	if d.minConfidence > 0 && info.Confidence < d.minConfidence {
		return Result{}, fmt.Errorf("%w: confidence %.2f below %.2f", ErrUndetectable, info.Confidence, d.minConfidence)
	}

	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	return Result{
		Name:       info.Lang.String(),
		Code:       code,
		Confidence: info.Confidence,
	}, nil
}

// Label returns the cell text for text: "" for empty input, Unknown for
// undetectable input, otherwise the detected "Name (code)".
func (d *Detector) Label(text string) string {
	res, err := d.Detect(text)
	switch {
	case errors.Is(err, ErrEmptyText):
		return ""
	case err != nil:
		return Unknown.String()
	}
	return res.String()
}
