package reader

import (
	"os"
	"strings"
)

// SQL splits a script file into individual statements.
//
// The split is on every literal ';' in the file. Semicolons inside
// string literals, comments, or procedural bodies (DO blocks, function
// definitions) split those statements incorrectly. Callers running such
// scripts must execute them through other means.
type SQL struct{}

// Extensions implements Reader.
func (s *SQL) Extensions() []string {
	return []string{".sql"}
}

// ReadStatements returns the file's statements in order, whitespace
// trimmed, empty fragments dropped.
func (s *SQL) ReadStatements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return SplitStatements(string(data)), nil
}

// SplitStatements performs the naive semicolon split on SQL text.
func SplitStatements(content string) []string {
	parts := strings.Split(content, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
