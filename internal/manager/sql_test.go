package manager

import (
	"reflect"
	"strings"
	"testing"

	"github.com/johndauphine/pgbulk/internal/record"
)

func TestBuildCreateTable(t *testing.T) {
	cols := []ColumnDef{
		{Name: "id", Type: "SERIAL"},
		{Name: "name", Type: "VARCHAR(100)"},
		{Name: "created_at", Type: "TIMESTAMP DEFAULT CURRENT_TIMESTAMP"},
	}

	t.Run("clauses in slice order with single pk marker", func(t *testing.T) {
		got := buildCreateTable("users", cols, "id", true)
		want := "CREATE TABLE IF NOT EXISTS users (id SERIAL PRIMARY KEY, name VARCHAR(100), created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)"
		if got != want {
			t.Errorf("got %q\nwant %q", got, want)
		}
	})

	t.Run("no pk when name does not match", func(t *testing.T) {
		got := buildCreateTable("users", cols, "missing", true)
		if contains := "PRIMARY KEY"; strings.Contains(got, contains) {
			t.Errorf("statement should not contain %q: %s", contains, got)
		}
	})

	t.Run("without if not exists", func(t *testing.T) {
		got := buildCreateTable("users", cols[:1], "", false)
		want := "CREATE TABLE users (id SERIAL)"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestBuildDropTable(t *testing.T) {
	if got := buildDropTable("users", true); got != "DROP TABLE IF EXISTS users" {
		t.Errorf("got %q", got)
	}
	if got := buildDropTable("users", false); got != "DROP TABLE users" {
		t.Errorf("got %q", got)
	}
}

func TestBuildInsert(t *testing.T) {
	cols := []string{"age", "name"}

	got := buildInsert("users", cols, false)
	want := "INSERT INTO users (age, name) VALUES ($1, $2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = buildInsert("users", cols, true)
	want = "INSERT INTO users (age, name) VALUES ($1, $2) RETURNING id"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildBatchInsert(t *testing.T) {
	got := buildBatchInsert("users", []string{"a", "b"}, 3)
	want := "INSERT INTO users (a, b) VALUES ($1, $2), ($3, $4), ($5, $6)"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestBuildUpdate(t *testing.T) {
	got := buildUpdate("users", []string{"email", "name"}, "id = $3")
	want := "UPDATE users SET email = $1, name = $2 WHERE id = $3"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildDelete(t *testing.T) {
	got := buildDelete("users", "id = $1")
	want := "DELETE FROM users WHERE id = $1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWhereOffset(t *testing.T) {
	row := record.Row{"a": 1, "b": 2}
	if got := WhereOffset(row); got != 3 {
		t.Errorf("WhereOffset = %d, want 3", got)
	}
}

func TestRowArgsFollowColumnOrder(t *testing.T) {
	row := record.Row{"b": 2, "a": 1}
	got := rowArgs(row, []string{"a", "b"})
	if !reflect.DeepEqual(got, []any{1, 2}) {
		t.Errorf("rowArgs = %v, want [1 2]", got)
	}
}

func TestBatchArgsFlattening(t *testing.T) {
	rows := []record.Row{
		{"a": 1, "b": "x"},
		{"a": 2, "b": "y"},
	}
	got := batchArgs(rows, []string{"a", "b"})
	want := []any{1, "x", 2, "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("batchArgs = %v, want %v", got, want)
	}
}

func TestIsSelect(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"SELECT 1", true},
		{"select * from t", true},
		{"SeLeCt x", true},
		{"INSERT INTO t VALUES (1)", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"SEL", false},
	}

	for _, tt := range tests {
		if got := isSelect(tt.stmt); got != tt.want {
			t.Errorf("isSelect(%q) = %v, want %v", tt.stmt, got, tt.want)
		}
	}
}
