package highlight

import "fmt"

// Record is one data row keyed by header name. When the header repeats a
// name only the last such cell is reachable through the map; Dataset.Row
// keeps every cell.
type Record map[string]string

// Dataset is the tabular input of a run: a header plus ordered records.
// Record order is significant; the index of a record decides its sheet row.
type Dataset struct {
	Columns []string
	Records []Record

	// cells holds each row positionally, padded to len(Columns).
	cells [][]string
}

// NewDataset builds a Dataset from a header row and raw value rows.
// Short rows are padded with empty strings because the Sheets API trims
// trailing empty cells; cells beyond the header are dropped.
func NewDataset(header []string, rows [][]string) Dataset {
	ds := Dataset{
		Columns: append([]string(nil), header...),
		Records: make([]Record, len(rows)),
		cells:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		cells := make([]string, len(header))
		copy(cells, row)
		rec := make(Record, len(header))
		for j, col := range header {
			rec[col] = cells[j]
		}
		ds.Records[i] = rec
		ds.cells[i] = cells
	}
	return ds
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Row returns the cells of record i in header order.
func (d Dataset) Row(i int) []string {
	if i < len(d.cells) {
		return d.cells[i]
	}
	row := make([]string, len(d.Columns))
	for j, col := range d.Columns {
		row[j] = d.Records[i][col]
	}
	return row
}

// HasColumn reports whether name is part of the header.
func (d Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// ColumnIndex returns the 1-based position of the first header cell named
// name, or 0.
func (d Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i + 1
		}
	}
	return 0
}

// Column resolves name to its 1-based header position. A name that is
// missing fails with ErrColumnNotFound, one that appears more than once
// with ErrDuplicateColumn.
func (d Dataset) Column(name string) (int, error) {
	idx := 0
	for i, col := range d.Columns {
		if col != name {
			continue
		}
		if idx > 0 {
			return 0, fmt.Errorf("%w: %q at columns %d and %d", ErrDuplicateColumn, name, idx, i+1)
		}
		idx = i + 1
	}
	if idx == 0 {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return idx, nil
}

// value returns the cell of record i at the 1-based header position idx.
func (d Dataset) value(i, idx int) (string, bool) {
	if i < len(d.cells) {
		return d.cells[i][idx-1], true
	}
	v, ok := d.Records[i][d.Columns[idx-1]]
	return v, ok
}

// Values returns every record's value for column, in record order.
func (d Dataset) Values(column string) ([]string, error) {
	idx, err := d.Column(column)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(d.Records))
	for i := range d.Records {
		v, ok := d.value(i, idx)
		if !ok {
			return nil, fmt.Errorf("%w: %q missing in record %d", ErrColumnNotFound, column, i)
		}
		values[i] = v
	}
	return values, nil
}
