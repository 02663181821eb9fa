// Package reader maps file extensions to parser capabilities. Built-in
// formats are registered at init; new formats are added by registering
// another Reader, not by editing a dispatch switch.
package reader

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/johndauphine/pgbulk/internal/record"
)

// Reader is the common surface of every registered format.
type Reader interface {
	// Extensions returns the file extensions this reader handles,
	// lowercase with the leading dot (e.g. ".csv").
	Extensions() []string
}

// RowReader converts a file into normalized rows for ingestion.
type RowReader interface {
	Reader
	ReadRows(path string) ([]record.Row, error)
}

// StatementReader converts a file into an ordered list of SQL statements.
type StatementReader interface {
	Reader
	ReadStatements(path string) ([]string, error)
}

// TextReader extracts plain text from a file.
type TextReader interface {
	Reader
	ReadText(path string) (string, error)
}

var (
	registryMu sync.RWMutex
	readers    = make(map[string]Reader)
)

// Register adds a reader for each of its extensions. Panics if an
// extension is already claimed, mirroring database/sql driver
// registration.
func Register(r Reader) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, ext := range r.Extensions() {
		ext = normalizeExt(ext)
		if _, exists := readers[ext]; exists {
			panic("reader: Register called twice for extension " + ext)
		}
		readers[ext] = r
	}
}

// Get returns the reader for a file extension. The lookup is
// case-insensitive and the leading dot is optional. Unknown extensions
// return an UnsupportedFormatError naming the supported set.
func Get(ext string) (Reader, error) {
	normalized := normalizeExt(ext)

	registryMu.RLock()
	r, ok := readers[normalized]
	registryMu.RUnlock()

	if !ok {
		return nil, &UnsupportedFormatError{Ext: normalized, Supported: Supported()}
	}
	return r, nil
}

// ForFile returns the reader matching the file's extension.
func ForFile(path string) (Reader, error) {
	return Get(filepath.Ext(path))
}

// Supported returns the sorted list of registered extensions.
func Supported() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(readers))
	for ext := range readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func init() {
	Register(&CSV{})
	Register(&JSON{})
	Register(&SQL{})
	Register(&Excel{})
	Register(&PDF{})
}
