package reader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/johndauphine/pgbulk/internal/record"
)

// JSON reads files whose root is either an array of objects or a single
// object. A single object yields one row.
type JSON struct{}

// Extensions implements Reader.
func (j *JSON) Extensions() []string {
	return []string{".json"}
}

// ReadRows parses the file. Numbers decode as int64 when integral and
// float64 otherwise. Any other root value is a ValueError.
func (j *JSON) ReadRows(path string) ([]record.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	switch v := root.(type) {
	case []any:
		rows := make([]record.Row, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, &ValueError{Path: path, Reason: fmt.Sprintf("array element %d is not an object", i)}
			}
			rows = append(rows, objectToRow(obj))
		}
		return rows, nil
	case map[string]any:
		return []record.Row{objectToRow(v)}, nil
	default:
		return nil, &ValueError{Path: path, Reason: "root must be an object or an array of objects"}
	}
}

func objectToRow(obj map[string]any) record.Row {
	row := make(record.Row, len(obj))
	for k, v := range obj {
		row[k] = normalizeJSONValue(v)
	}
	return row
}

func normalizeJSONValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
