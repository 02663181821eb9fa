package manager

import (
	"context"
	"fmt"

	"github.com/johndauphine/pgbulk/internal/logging"
	"github.com/johndauphine/pgbulk/internal/record"
)

// CreateTableOptions controls CreateTableWithOptions.
type CreateTableOptions struct {
	// IfNotExists adds IF NOT EXISTS to the statement.
	IfNotExists bool
}

// DropTableOptions controls DropTableWithOptions.
type DropTableOptions struct {
	// IfExists adds IF EXISTS to the statement.
	IfExists bool
}

// CreateTable creates a table with IF NOT EXISTS. Columns appear in
// slice order, one clause each; the column named by primaryKey (when
// non-empty) gets a PRIMARY KEY marker appended to its definition. No
// validation is done beyond what the type strings themselves declare.
func (m *Manager) CreateTable(ctx context.Context, table string, cols []ColumnDef, primaryKey string) error {
	return m.CreateTableWithOptions(ctx, table, cols, primaryKey, CreateTableOptions{IfNotExists: true})
}

// CreateTableWithOptions creates a table with explicit options.
func (m *Manager) CreateTableWithOptions(ctx context.Context, table string, cols []ColumnDef, primaryKey string, opts CreateTableOptions) error {
	stmt := buildCreateTable(table, cols, primaryKey, opts.IfNotExists)
	if _, err := m.execute(ctx, stmt, nil, fetchNone, true); err != nil {
		logging.Error("creating table %s: %v", table, err)
		return err
	}
	logging.Info("created table %s", table)
	return nil
}

// DropTable drops a table with IF EXISTS.
func (m *Manager) DropTable(ctx context.Context, table string) error {
	return m.DropTableWithOptions(ctx, table, DropTableOptions{IfExists: true})
}

// DropTableWithOptions drops a table with explicit options.
func (m *Manager) DropTableWithOptions(ctx context.Context, table string, opts DropTableOptions) error {
	stmt := buildDropTable(table, opts.IfExists)
	if _, err := m.execute(ctx, stmt, nil, fetchNone, true); err != nil {
		logging.Error("dropping table %s: %v", table, err)
		return err
	}
	logging.Info("dropped table %s", table)
	return nil
}

// Insert inserts a single row and commits.
func (m *Manager) Insert(ctx context.Context, table string, row record.Row) error {
	cols := record.Columns(row)
	stmt := buildInsert(table, cols, false)
	if _, err := m.execute(ctx, stmt, rowArgs(row, cols), fetchNone, true); err != nil {
		logging.Error("inserting into %s: %v", table, err)
		return err
	}
	logging.Debug("inserted 1 row into %s", table)
	return nil
}

// InsertReturningID inserts a single row, commits, and returns the
// generated key. The table's key column must be literally named "id".
func (m *Manager) InsertReturningID(ctx context.Context, table string, row record.Row) (int64, error) {
	cols := record.Columns(row)
	stmt := buildInsert(table, cols, true)
	res, err := m.execute(ctx, stmt, rowArgs(row, cols), fetchOne, true)
	if err != nil {
		logging.Error("inserting into %s: %v", table, err)
		return 0, err
	}
	if len(res.rows) == 0 || len(res.rows[0]) == 0 {
		return 0, fmt.Errorf("insert into %s returned no id", table)
	}
	id, err := toInt64(res.rows[0][0])
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	logging.Debug("inserted 1 row into %s with id %d", table, id)
	return id, nil
}

// InsertBatch inserts rows in chunks of batchSize, one multi-row
// INSERT per chunk, committing after each chunk. The first row's key
// set defines the column list; any row with a different key set fails
// fast before anything executes. A batchSize of zero or less uses the
// configured MAX_BATCH_SIZE.
//
// There is no atomicity across chunks: when chunk k fails, chunks
// before k stay committed and the error propagates with the count of
// rows already inserted. Callers needing all-or-nothing semantics must
// provide their own transaction.
func (m *Manager) InsertBatch(ctx context.Context, table string, rows []record.Row, batchSize int) (int, error) {
	if len(rows) == 0 {
		logging.Warn("batch insert into %s: empty input", table)
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = m.cfg.MaxBatchSize
	}

	cols, err := record.ValidateBatch(rows)
	if err != nil {
		logging.Error("batch insert into %s: %v", table, err)
		return 0, fmt.Errorf("batch insert into %s: %w", table, err)
	}

	total := 0
	for _, chunk := range record.Chunk(rows, batchSize) {
		stmt := buildBatchInsert(table, cols, len(chunk))
		if _, err := m.execute(ctx, stmt, batchArgs(chunk, cols), fetchNone, true); err != nil {
			logging.Error("batch insert into %s failed after %d rows: %v", table, total, err)
			return total, err
		}
		total += len(chunk)
		logging.Debug("batch inserted %d rows into %s (%d total)", len(chunk), table, total)
	}

	logging.Info("batch insert completed: %d rows into %s", total, table)
	return total, nil
}

// Update sets the row's columns on every record matching the WHERE
// clause and returns the affected-row count. The clause is raw trusted
// SQL; its placeholders must start at WhereOffset(row) since the SET
// clause consumes the leading parameter numbers.
func (m *Manager) Update(ctx context.Context, table string, row record.Row, where string, whereArgs ...any) (int64, error) {
	cols := record.Columns(row)
	stmt := buildUpdate(table, cols, where)
	args := append(rowArgs(row, cols), whereArgs...)
	res, err := m.execute(ctx, stmt, args, fetchNone, true)
	if err != nil {
		logging.Error("updating %s: %v", table, err)
		return 0, err
	}
	logging.Info("updated %d rows in %s", res.affected, table)
	return res.affected, nil
}

// Delete removes every record matching the WHERE clause and returns the
// affected-row count. The clause is raw trusted SQL with placeholders
// numbered from $1.
func (m *Manager) Delete(ctx context.Context, table string, where string, whereArgs ...any) (int64, error) {
	stmt := buildDelete(table, where)
	res, err := m.execute(ctx, stmt, whereArgs, fetchNone, true)
	if err != nil {
		logging.Error("deleting from %s: %v", table, err)
		return 0, err
	}
	logging.Info("deleted %d rows from %s", res.affected, table)
	return res.affected, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("generated id has unexpected type %T", v)
	}
}
