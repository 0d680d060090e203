package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Row represents a single table row.
// Key = column name, Value = cell value (opaque text).
// Columns keep the order in which they were first set, which is what
// positional primary-key inference relies on.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow creates an empty Row
func NewRow() Row {
	return Row{values: make(map[string]string)}
}

// RowOf builds a row from alternating column/value pairs.
// A trailing column without a value is bound to the empty string.
func RowOf(pairs ...string) Row {
	r := NewRow()
	for i := 0; i < len(pairs); i += 2 {
		val := ""
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		r.Set(pairs[i], val)
	}
	return r
}

// Set binds col to val. An existing column keeps its position.
func (r *Row) Set(col, val string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = val
}

// Get returns the value bound to col
func (r Row) Get(col string) (string, bool) {
	val, ok := r.values[col]
	return val, ok
}

// Has reports whether the row contains col
func (r Row) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns the column names in insertion order
func (r Row) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Len returns the number of entries in the row
func (r Row) Len() int {
	return len(r.columns)
}

// IsEmpty reports whether the row has no entries
func (r Row) IsEmpty() bool {
	return len(r.columns) == 0
}

// First returns the row's first entry
func (r Row) First() (col, val string, ok bool) {
	if len(r.columns) == 0 {
		return "", "", false
	}
	col = r.columns[0]
	return col, r.values[col], true
}

// Copy creates a deep copy of the row to prevent mutation
func (r Row) Copy() Row {
	out := Row{
		columns: make([]string, len(r.columns)),
		values:  make(map[string]string, len(r.values)),
	}
	copy(out.columns, r.columns)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Merge returns a copy of r with every entry of other overlaid on it.
// Colliding columns take other's value and keep r's position; new columns
// are appended in other's order.
func (r Row) Merge(other Row) Row {
	out := r.Copy()
	for _, col := range other.columns {
		out.Set(col, other.values[col])
	}
	return out
}

// Equal reports whether both rows hold the same entries in the same order
func (r Row) Equal(other Row) bool {
	if len(r.columns) != len(other.columns) {
		return false
	}
	for i, col := range r.columns {
		if other.columns[i] != col || other.values[col] != r.values[col] {
			return false
		}
	}
	return true
}

// Map returns the row as an unordered map
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// String renders the row as {col: val, ...} in column order
func (r Row) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", col, r.values[col])
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON implements json.Marshaler interface.
// Keys are written in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
// Object key order becomes the row's column order. Non-string values keep
// their JSON text, so 1 and "1" decode to the same value.
func (r *Row) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("invalid row JSON")
	}
	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		return fmt.Errorf("row must be a JSON object, got %s", res.Type)
	}
	*r = rowFromResult(res)
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting a mapping in column order
func (r Row) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, col := range r.columns {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.values[col]},
		)
	}
	return node, nil
}

func rowFromResult(res gjson.Result) Row {
	row := NewRow()
	res.ForEach(func(key, value gjson.Result) bool {
		row.Set(key.String(), textOf(value))
		return true
	})
	return row
}

func textOf(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}
