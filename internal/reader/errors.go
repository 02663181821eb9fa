package reader

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError is returned by Get when no reader is registered
// for a file extension.
type UnsupportedFormatError struct {
	Ext       string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s (supported: %s)", e.Ext, strings.Join(e.Supported, ", "))
}

// ReadError wraps a failure to open or parse a source file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ValueError reports content with the wrong shape, such as a JSON file
// whose root is neither an object nor an array of objects.
type ValueError struct {
	Path   string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
