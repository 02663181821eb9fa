package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/johndauphine/pgbulk/internal/logging"
	"github.com/johndauphine/pgbulk/internal/reader"
	"github.com/johndauphine/pgbulk/internal/record"
)

// InsertFromFile loads a file into a table, dispatching on the file's
// extension via the reader registry. The format must be a row source
// (CSV, JSON, Excel); statement and text formats are rejected.
func (m *Manager) InsertFromFile(ctx context.Context, table, path string, batchSize int) (int, error) {
	r, err := reader.ForFile(path)
	if err != nil {
		logging.Error("loading %s into %s: %v", path, table, err)
		return 0, err
	}
	rr, ok := r.(reader.RowReader)
	if !ok {
		err := fmt.Errorf("format %s cannot produce rows for ingestion", filepath.Ext(path))
		logging.Error("loading %s into %s: %v", path, table, err)
		return 0, err
	}
	return m.insertFromReader(ctx, table, path, rr, batchSize)
}

// InsertFromCSV loads a CSV file into a table.
func (m *Manager) InsertFromCSV(ctx context.Context, table, path string, batchSize int) (int, error) {
	return m.insertFromReader(ctx, table, path, &reader.CSV{}, batchSize)
}

// InsertFromJSON loads a JSON file (array of objects or single object)
// into a table.
func (m *Manager) InsertFromJSON(ctx context.Context, table, path string, batchSize int) (int, error) {
	return m.insertFromReader(ctx, table, path, &reader.JSON{}, batchSize)
}

// InsertFromExcel loads a workbook sheet into a table. The sheet is
// selected by name, or by position when the string parses as an
// integer; empty selects the first sheet.
func (m *Manager) InsertFromExcel(ctx context.Context, table, path, sheet string, batchSize int) (int, error) {
	excel := &reader.Excel{}
	if sheet != "" {
		if idx, err := strconv.Atoi(sheet); err == nil {
			excel.SheetIndex = idx
		} else {
			excel.Sheet = sheet
		}
	}
	return m.insertFromReader(ctx, table, path, excel, batchSize)
}

// InsertFromTable loads an in-memory table, the pass-through source for
// rows that never lived in a file.
func (m *Manager) InsertFromTable(ctx context.Context, table string, t *record.Table, batchSize int) (int, error) {
	if t.Len() == 0 {
		logging.Warn("loading into %s: empty table source", table)
		return 0, nil
	}
	return m.InsertBatch(ctx, table, t.Records(), batchSize)
}

func (m *Manager) insertFromReader(ctx context.Context, table, path string, r reader.RowReader, batchSize int) (int, error) {
	rows, err := r.ReadRows(path)
	if err != nil {
		logging.Error("loading %s into %s: %v", path, table, err)
		return 0, err
	}

	count, err := m.InsertBatch(ctx, table, rows, batchSize)
	if err != nil {
		return count, err
	}
	logging.Info("loaded %d rows from %s into %s", count, path, table)
	return count, nil
}
