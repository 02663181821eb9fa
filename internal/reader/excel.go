package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/johndauphine/pgbulk/internal/record"
)

// Excel reads a workbook sheet. The first row of the selected sheet is
// the header. The zero value reads the first sheet.
type Excel struct {
	// Sheet selects a sheet by name and wins over SheetIndex when set.
	Sheet string
	// SheetIndex selects a sheet by position (0-based).
	SheetIndex int
}

// Extensions implements Reader.
func (e *Excel) Extensions() []string {
	return []string{".xlsx", ".xls"}
}

// ReadRows reads the selected sheet into rows. Cell text goes through
// the same scalar inference as CSV fields; cells past the end of a short
// row become nil.
func (e *Excel) ReadRows(path string) ([]record.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	sheet, err := e.resolveSheet(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := cells[0]
	rows := make([]record.Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(record.Row, len(header))
		for i, col := range header {
			if i < len(line) {
				row[col] = inferValue(line[i])
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Excel) resolveSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	if e.Sheet != "" {
		for _, name := range sheets {
			if name == e.Sheet {
				return name, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found (sheets: %v)", e.Sheet, sheets)
	}

	if e.SheetIndex < 0 || e.SheetIndex >= len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", e.SheetIndex, len(sheets))
	}
	return sheets[e.SheetIndex], nil
}
