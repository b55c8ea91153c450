package highlight

import "errors"

var (
	// ErrColumnNotFound is returned when the grouping column is missing from
	// the dataset header or from one of its records.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn is returned when the requested column name appears
	// more than once in the header.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrInvalidPositions is returned by CompressToRanges when a group has no
	// positions or its positions are not strictly ascending.
	ErrInvalidPositions = errors.New("invalid positions")

	// ErrColorExhaustion is returned when there are more groups than free
	// colors in the palette.
	ErrColorExhaustion = errors.New("color palette exhausted")

	// ErrInvalidPalette is returned for an empty alphabet or one containing
	// repeated or non-hex symbols.
	ErrInvalidPalette = errors.New("invalid palette")
)
