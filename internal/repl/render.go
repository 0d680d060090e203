package repl

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/executor"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// PrintResult writes a status result as plain text and a row result in format
func PrintResult(w io.Writer, res *executor.Result, format string) error {
	if res == nil {
		return nil
	}
	if !res.HasRows() {
		_, err := fmt.Fprintln(w, res.Message)
		return err
	}

	switch format {
	case FormatJSON:
		return renderJSON(w, res.Rows)
	case FormatYAML:
		return renderYAML(w, res.Rows)
	default:
		return renderTable(w, res.Columns, res.Rows)
	}
}

// PrintError writes err the way every surface reports failures
func PrintError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

func renderTable(w io.Writer, cols []string, rows []data.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	// Header
	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	// Rows
	for _, result := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(result, col)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func formatValue(row data.Row, col string) string {
	val, ok := row.Get(col)
	if !ok {
		return "NULL"
	}
	return val
}

func renderJSON(w io.Writer, rows []data.Row) error {
	if rows == nil {
		rows = []data.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderYAML(w io.Writer, rows []data.Row) error {
	if rows == nil {
		rows = []data.Row{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}

// tableInfo is the serialized form of one table listing entry
type tableInfo struct {
	Name       string `json:"name" yaml:"name"`
	Rows       int    `json:"rows" yaml:"rows"`
	PrimaryKey string `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Size       int64  `json:"size_bytes" yaml:"size_bytes"`
	Corrupt    bool   `json:"corrupt,omitempty" yaml:"corrupt,omitempty"`
}

// PrintTables renders a table listing
func PrintTables(w io.Writer, stats []manager.TableStats, format string) error {
	infos := make([]tableInfo, len(stats))
	for i, s := range stats {
		infos[i] = tableInfo{Name: s.Name, Rows: s.Rows, PrimaryKey: s.PrimaryKey, Size: s.Size, Corrupt: s.Corrupt}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "(no tables)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Rows", "Primary key", "Size", "Status"})
	for _, info := range infos {
		pk := info.PrimaryKey
		if pk == "" {
			pk = "(first column)"
		}
		status := "ok"
		if info.Corrupt {
			status = "unreadable"
		}
		t.AppendRow(table.Row{info.Name, humanize.Comma(int64(info.Rows)), pk, humanize.Bytes(uint64(info.Size)), status})
	}
	t.Render()
	return nil
}
