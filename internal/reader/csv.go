package reader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/johndauphine/pgbulk/internal/record"
)

// CSV reads comma-separated files. The first record is the header row
// and defines the column names. The zero value reads UTF-8 with a comma
// delimiter.
type CSV struct {
	// Comma overrides the field delimiter. Zero means ','.
	Comma rune
	// Encoding decodes the file's bytes before parsing. Nil means the
	// input is already UTF-8.
	Encoding encoding.Encoding
}

// Extensions implements Reader.
func (c *CSV) Extensions() []string {
	return []string{".csv"}
}

// ReadRows parses the file into one row per CSV record. Empty fields
// become nil; integer and decimal fields become int64 and float64;
// everything else stays a string.
func (c *CSV) ReadRows(path string) ([]record.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var src io.Reader = f
	if c.Encoding != nil {
		src = transform.NewReader(f, c.Encoding.NewDecoder())
	}

	r := csv.NewReader(src)
	if c.Comma != 0 {
		r.Comma = c.Comma
	}

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []record.Row
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		row := make(record.Row, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = inferValue(fields[i])
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// inferValue maps a cell's text to the scalar kinds the driver binds
// natively. Shared by the CSV and Excel readers.
func inferValue(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
