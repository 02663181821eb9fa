// Package manager exposes CRUD helpers, catalog introspection and bulk
// loading over a single PostgreSQL connection.
//
// A Manager owns at most one connection and is meant for one goroutine
// at a time; there is no internal locking. Concurrent workers should
// each hold their own Manager. Table and column names, type strings and
// WHERE clauses are trusted caller input and are never quoted or
// escaped; only values travel as bound parameters.
package manager

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/johndauphine/pgbulk/internal/config"
	"github.com/johndauphine/pgbulk/internal/logging"
	"github.com/johndauphine/pgbulk/internal/reader"
	"github.com/johndauphine/pgbulk/internal/record"
)

type fetchMode int

const (
	fetchNone fetchMode = iota
	fetchAll
	fetchOne
)

// Manager is the facade over one database connection. Statements run
// inside a transaction that begins lazily on the first statement and
// stays current until a commit, so multi-statement work behaves the way
// the driver's session would.
type Manager struct {
	cfg  *config.Config
	conn *pgx.Conn
	tx   pgx.Tx
}

// New returns an unconnected Manager. The config is not copied; treat
// it as immutable after this call.
func New(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Connect opens the connection. Connecting twice without an intervening
// Disconnect fails with ErrAlreadyConnected.
func (m *Manager) Connect(ctx context.Context) error {
	if m.conn != nil {
		return ErrAlreadyConnected
	}

	conn, err := pgx.Connect(ctx, m.cfg.DSN())
	if err != nil {
		logging.Error("connection to %s:%d/%s failed: %v", m.cfg.Host, m.cfg.Port, m.cfg.Database, err)
		return &ConnectError{Err: err}
	}

	m.conn = conn
	logging.Info("connected to database %s:%d/%s", m.cfg.Host, m.cfg.Port, m.cfg.Database)
	return nil
}

// Disconnect closes the connection, rolling back any open transaction
// first. It reports whether a connection was actually closed; calling
// it on a never-connected manager is a no-op returning false.
func (m *Manager) Disconnect(ctx context.Context) (bool, error) {
	if m.conn == nil {
		return false, nil
	}

	if m.tx != nil {
		if err := m.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn("rollback on disconnect: %v", err)
		}
		m.tx = nil
	}

	err := m.conn.Close(ctx)
	m.conn = nil
	if err != nil {
		return true, err
	}
	logging.Info("disconnected from database")
	return true, nil
}

// Connected reports whether the manager holds an open connection.
func (m *Manager) Connected() bool {
	return m.conn != nil
}

// Session runs fn with a connected Manager and disconnects when fn
// returns, even on error. This is the scoped form of Connect/Disconnect
// so callers cannot leak the connection.
func Session(ctx context.Context, cfg *config.Config, fn func(*Manager) error) (err error) {
	m := New(cfg)
	if err := m.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if _, derr := m.Disconnect(ctx); derr != nil && err == nil {
			err = derr
		}
	}()
	return fn(m)
}

// result carries whatever a statement produced: positional rows with
// their reported column names for fetches, an affected-row count
// otherwise.
type result struct {
	columns  []string
	rows     [][]any
	affected int64
}

// execute is the single choke point every operation funnels through.
// Any execution error rolls back the current transaction before the
// QueryError surfaces; autoCommit commits it on success.
func (m *Manager) execute(ctx context.Context, stmt string, args []any, fetch fetchMode, autoCommit bool) (*result, error) {
	if m.conn == nil {
		return nil, ErrNotConnected
	}

	if m.tx == nil {
		tx, err := m.conn.Begin(ctx)
		if err != nil {
			logging.Error("begin transaction: %v", err)
			return nil, &QueryError{Stmt: stmt, Err: err}
		}
		m.tx = tx
	}

	res := &result{}

	switch fetch {
	case fetchNone:
		tag, err := m.tx.Exec(ctx, stmt, args...)
		if err != nil {
			return nil, m.fail(ctx, stmt, err)
		}
		res.affected = tag.RowsAffected()

	case fetchAll, fetchOne:
		rows, err := m.tx.Query(ctx, stmt, args...)
		if err != nil {
			return nil, m.fail(ctx, stmt, err)
		}
		res.columns, res.rows, err = collect(rows, fetch == fetchOne)
		if err != nil {
			return nil, m.fail(ctx, stmt, err)
		}
	}

	if autoCommit {
		err := m.tx.Commit(ctx)
		m.tx = nil
		if err != nil {
			logging.Error("commit: %v", err)
			return nil, &QueryError{Stmt: stmt, Err: err}
		}
	}
	return res, nil
}

// collect drains a row set, releasing it on every path. one limits the
// result to the first row.
func collect(rows pgx.Rows, one bool) ([]string, [][]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, values)
		if one {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, out, nil
}

func (m *Manager) fail(ctx context.Context, stmt string, err error) error {
	if m.tx != nil {
		if rbErr := m.tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logging.Warn("rollback after failed statement: %v", rbErr)
		}
		m.tx = nil
	}
	logging.Error("statement failed: %v", err)
	return &QueryError{Stmt: stmt, Err: err}
}

// Query runs a SELECT and returns all rows as positional tuples in
// result order. Nothing is committed.
func (m *Manager) Query(ctx context.Context, stmt string, args ...any) ([][]any, error) {
	res, err := m.execute(ctx, stmt, args, fetchAll, false)
	if err != nil {
		return nil, err
	}
	logging.Debug("query returned %d rows", len(res.rows))
	return res.rows, nil
}

// QueryTable runs a SELECT and wraps the rows together with the
// statement's reported column names, in the statement's column order.
func (m *Manager) QueryTable(ctx context.Context, stmt string, args ...any) (*record.Table, error) {
	res, err := m.execute(ctx, stmt, args, fetchAll, false)
	if err != nil {
		return nil, err
	}
	logging.Debug("query returned %d rows", len(res.rows))
	return &record.Table{Columns: res.columns, Rows: res.rows}, nil
}

// RunSQLFile splits the file into statements (naive semicolon split,
// see reader.SQL) and executes each in order. SELECT-prefixed
// statements are fetched and the last one's rows become the returned
// table; everything else executes with commit.
func (m *Manager) RunSQLFile(ctx context.Context, path string) (*record.Table, error) {
	sqlReader := &reader.SQL{}
	statements, err := sqlReader.ReadStatements(path)
	if err != nil {
		logging.Error("running SQL file %s: %v", path, err)
		return nil, err
	}

	last := &record.Table{}
	for _, stmt := range statements {
		if isSelect(stmt) {
			res, err := m.execute(ctx, stmt, nil, fetchAll, false)
			if err != nil {
				logging.Error("running SQL file %s: %v", path, err)
				return nil, err
			}
			last = &record.Table{Columns: res.columns, Rows: res.rows}
			continue
		}
		if _, err := m.execute(ctx, stmt, nil, fetchNone, true); err != nil {
			logging.Error("running SQL file %s: %v", path, err)
			return nil, err
		}
	}

	logging.Info("executed SQL file %s (%d statements)", path, len(statements))
	return last, nil
}

// isSelect matches the literal prefix, case-insensitively. CTEs (WITH
// ... SELECT) intentionally do not match; they execute without a fetch,
// same as the historical behavior.
func isSelect(stmt string) bool {
	return len(stmt) >= 6 && strings.EqualFold(stmt[:6], "SELECT")
}
