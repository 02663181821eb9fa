package reader

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestJSONArrayOfObjects(t *testing.T) {
	path := writeFile(t, "users.json", `[
		{"name": "alice", "age": 30, "active": true},
		{"name": "bob", "age": 25, "ratio": 0.5}
	]`)

	rows, err := (&JSON{}).ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["name"] != "alice" {
		t.Errorf("name = %v", rows[0]["name"])
	}
	if rows[0]["age"] != int64(30) {
		t.Errorf("age = %v (%T), want int64(30)", rows[0]["age"], rows[0]["age"])
	}
	if rows[0]["active"] != true {
		t.Errorf("active = %v", rows[0]["active"])
	}
	if rows[1]["ratio"] != 0.5 {
		t.Errorf("ratio = %v (%T), want 0.5", rows[1]["ratio"], rows[1]["ratio"])
	}
}

func TestJSONSingleObject(t *testing.T) {
	path := writeFile(t, "one.json", `{"name": "carol", "age": 40}`)

	rows, err := (&JSON{}).ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["name"] != "carol" {
		t.Errorf("name = %v", rows[0]["name"])
	}
}

func TestJSONInvalidRoot(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"scalar root", `42`},
		{"string root", `"hello"`},
		{"array of scalars", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.json", tt.content)
			_, err := (&JSON{}).ReadRows(path)
			if err == nil {
				t.Fatal("expected error")
			}
			var valueErr *ValueError
			if !errors.As(err, &valueErr) {
				t.Fatalf("error is %T, want *ValueError", err)
			}
		})
	}
}

func TestJSONMalformed(t *testing.T) {
	path := writeFile(t, "broken.json", `{"name": `)

	_, err := (&JSON{}).ReadRows(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error is %T, want *ReadError", err)
	}
}

func TestJSONMissingFile(t *testing.T) {
	_, err := (&JSON{}).ReadRows(filepath.Join(t.TempDir(), "nope.json"))
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error is %T, want *ReadError", err)
	}
}
