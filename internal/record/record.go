// Package record holds the row and table types shared by the reader
// and manager packages.
package record

import (
	"fmt"
	"sort"
)

// Row maps a column name to a scalar value. Values are the scalar kinds
// the driver understands: string, int64, float64, bool, time.Time or nil.
type Row map[string]any

// Columns returns the row's key set in sorted order. Go maps carry no
// insertion order, so the sorted form is what defines generated column
// lists throughout the codebase.
func Columns(row Row) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// ValidateBatch checks that every row shares the first row's key set and
// returns that key set as the batch column list. A mismatched row fails
// fast with its index so the caller never binds misaligned values.
func ValidateBatch(rows []Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := Columns(rows[0])
	for i, row := range rows[1:] {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %d has %d columns, batch defines %d (%v)", i+1, len(row), len(cols), cols)
		}
		for _, c := range cols {
			if _, ok := row[c]; !ok {
				return nil, fmt.Errorf("row %d is missing column %q defined by the first row", i+1, c)
			}
		}
	}
	return cols, nil
}

// Chunk partitions rows into consecutive groups of at most size rows.
// The last chunk may be short. size must be positive.
func Chunk(rows []Row, size int) [][]Row {
	if len(rows) == 0 {
		return nil
	}
	chunks := make([][]Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Table is a named-column result set. Rows are positional and follow the
// order of Columns.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Records converts the positional rows back into column-keyed rows.
func (t *Table) Records() []Row {
	if t == nil {
		return nil
	}
	records := make([]Row, 0, len(t.Rows))
	for _, values := range t.Rows {
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		records = append(records, row)
	}
	return records
}
