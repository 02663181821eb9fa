package manager

import (
	"fmt"
	"strings"

	"github.com/johndauphine/pgbulk/internal/record"
)

// ColumnDef is one column of a CREATE TABLE statement. Type is the raw
// declaration string (e.g. "VARCHAR(100) NOT NULL") and is trusted
// as-is, like every identifier in this package.
type ColumnDef struct {
	Name string
	Type string
}

// WhereOffset returns the first placeholder number available to a WHERE
// clause passed to Update: the SET clause consumes $1..$len(row).
func WhereOffset(row record.Row) int {
	return len(row) + 1
}

func buildCreateTable(table string, cols []ColumnDef, primaryKey string, ifNotExists bool) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(table)
	sb.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name)
		sb.WriteString(" ")
		sb.WriteString(col.Type)
		if primaryKey != "" && col.Name == primaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
	}
	sb.WriteString(")")
	return sb.String()
}

func buildDropTable(table string, ifExists bool) string {
	if ifExists {
		return "DROP TABLE IF EXISTS " + table
	}
	return "DROP TABLE " + table
}

func buildInsert(table string, cols []string, returnID bool) string {
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(1, len(cols)))
	if returnID {
		stmt += " RETURNING id"
	}
	return stmt
}

func buildBatchInsert(table string, cols []string, rowCount int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(cols, ", "))
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(placeholders(i*len(cols)+1, len(cols)))
		sb.WriteString(")")
	}
	return sb.String()
}

func buildUpdate(table string, cols []string, where string) string {
	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(assignments, ", "), where)
}

func buildDelete(table string, where string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", table, where)
}

// placeholders renders "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", start+i)
	}
	return sb.String()
}

// rowArgs flattens a row into positional arguments following cols.
func rowArgs(row record.Row, cols []string) []any {
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = row[col]
	}
	return args
}

// batchArgs flattens a chunk of rows into one argument list.
func batchArgs(rows []record.Row, cols []string) []any {
	args := make([]any, 0, len(rows)*len(cols))
	for _, row := range rows {
		args = append(args, rowArgs(row, cols)...)
	}
	return args
}
