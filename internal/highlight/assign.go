package highlight

import "fmt"

// ColorGroup is one group of rows sharing a grouping value.
// Positions are ascending sheet row numbers.
type ColorGroup struct {
	Value     string
	Color     Color
	Positions []int
}

// AssignGroupColors partitions ds by the value of column and gives each
// distinct value a unique color. Groups are returned in order of first
// appearance, each with its sheet rows in ascending order.
//
// It fails with ErrColumnNotFound if column is missing from the header or
// from any record, with ErrDuplicateColumn if the header names it twice, and
// with ErrColorExhaustion if the palette cannot cover every group.
func AssignGroupColors(ds Dataset, column string, opts ...Option) ([]ColorGroup, error) {
	o := newOptions(opts)
	if err := o.palette.Validate(); err != nil {
		return nil, err
	}
	col, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []ColorGroup
	for i := range ds.Records {
		value, ok := ds.value(i, col)
		if !ok {
			return nil, fmt.Errorf("%w: %q missing in row %d", ErrColumnNotFound, column, i+o.offset)
		}
		gi, seen := index[value]
		if !seen {
			gi = len(groups)
			index[value] = gi
			groups = append(groups, ColorGroup{Value: value})
		}
		groups[gi].Positions = append(groups[gi].Positions, i+o.offset)
	}

	if size := o.palette.Size(); len(groups) > size {
		return nil, fmt.Errorf("%w: %d groups, palette holds %d colors", ErrColorExhaustion, len(groups), size)
	}

	alloc := newColorAllocator(o.palette, o.source, o.maxAttempts)
	for i := range groups {
		c, err := alloc.next()
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", groups[i].Value, err)
		}
		groups[i].Color = c
	}
	return groups, nil
}
