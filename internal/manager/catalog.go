package manager

import (
	"context"

	"github.com/johndauphine/pgbulk/internal/logging"
)

// ColumnInfo describes one column from the database catalog.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

// TableExists checks information_schema for a table with the given
// name. The lookup is not filtered by schema, so an equal name in
// another schema also matches.
func (m *Manager) TableExists(ctx context.Context, table string) (bool, error) {
	const stmt = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_name = $1
		)`

	res, err := m.execute(ctx, stmt, []any{table}, fetchOne, false)
	if err != nil {
		logging.Error("checking existence of %s: %v", table, err)
		return false, err
	}
	if len(res.rows) == 0 || len(res.rows[0]) == 0 {
		return false, nil
	}
	exists, _ := res.rows[0][0].(bool)
	logging.Debug("table %s exists: %v", table, exists)
	return exists, nil
}

// TableColumns returns the table's column descriptors in physical
// column order, straight from the catalog on every call.
func (m *Manager) TableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	const stmt = `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`

	res, err := m.execute(ctx, stmt, []any{table}, fetchAll, false)
	if err != nil {
		logging.Error("reading columns of %s: %v", table, err)
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(res.rows))
	for _, row := range res.rows {
		var info ColumnInfo
		if len(row) < 3 {
			continue
		}
		info.Name, _ = row[0].(string)
		info.DataType, _ = row[1].(string)
		nullable, _ := row[2].(string)
		info.Nullable = nullable == "YES"
		columns = append(columns, info)
	}

	logging.Debug("table %s has %d columns", table, len(columns))
	return columns, nil
}
