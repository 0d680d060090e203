package data

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeRows parses a persisted row sequence.
// Empty or whitespace-only content decodes to an empty sequence.
func DecodeRows(content []byte) ([]Row, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return []Row{}, nil
	}
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("content is not valid JSON")
	}

	res := gjson.ParseBytes(content)
	if !res.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of rows, got %s", res.Type)
	}

	rows := make([]Row, 0)
	var decodeErr error
	res.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			decodeErr = fmt.Errorf("row %d is not a JSON object", len(rows))
			return false
		}
		rows = append(rows, rowFromResult(value))
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return rows, nil
}

// EncodeRows serializes a row sequence as an indented JSON array
func EncodeRows(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	compact, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent rows: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// CopyRows deep-copies a row sequence
func CopyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Copy()
	}
	return out
}
