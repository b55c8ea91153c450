package highlight

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Range is an inclusive span of sheet rows.
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// A1 renders the range across columns 1..lastColumn, e.g. "A12:F15".
func (r Range) A1(lastColumn int) (string, error) {
	from, err := excelize.CoordinatesToCellName(1, r.Start)
	if err != nil {
		return "", fmt.Errorf("range %s: %w", r, err)
	}
	to, err := excelize.CoordinatesToCellName(lastColumn, r.End)
	if err != nil {
		return "", fmt.Errorf("range %s: %w", r, err)
	}
	return from + ":" + to, nil
}

// ColoredRange pairs a row range with its background color.
type ColoredRange struct {
	Range Range
	Color Color
}

// CompressToRanges converts each group's positions into maximal contiguous
// ranges. Output follows group order, then position order, so identical
// input always yields identical output.
//
// Positions must be non-empty, at least 1 and strictly ascending; anything
// else is reported as ErrInvalidPositions rather than repaired.
func CompressToRanges(groups []ColorGroup) ([]ColoredRange, error) {
	var ranges []ColoredRange
	for _, g := range groups {
		if err := checkPositions(g.Positions); err != nil {
			return nil, fmt.Errorf("%w: color %s: %s", ErrInvalidPositions, g.Color, err)
		}

		start, end := g.Positions[0], g.Positions[0]
		for _, pos := range g.Positions[1:] {
			if pos == end+1 {
				end = pos
				continue
			}
			ranges = append(ranges, ColoredRange{Range: Range{Start: start, End: end}, Color: g.Color})
			start, end = pos, pos
		}
		ranges = append(ranges, ColoredRange{Range: Range{Start: start, End: end}, Color: g.Color})
	}
	return ranges, nil
}

func checkPositions(positions []int) error {
	if len(positions) == 0 {
		return fmt.Errorf("no positions")
	}
	if positions[0] < 1 {
		return fmt.Errorf("position %d below row 1", positions[0])
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return fmt.Errorf("position %d follows %d", positions[i], positions[i-1])
		}
	}
	return nil
}
