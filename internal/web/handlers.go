package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
)

const flashSession = "bendb-flash"

// flash kinds, also used as CSS suffixes
const (
	flashSuccess = "success"
	flashError   = "error"
)

type flash struct {
	Kind    string
	Message string
}

type rowView struct {
	Key    string
	Values []string
}

type indexPage struct {
	Flashes     []flash
	Tables      []string
	Current     string
	Columns     []string
	Rows        []rowView
	FormColumns []string
	BlankFields []int
}

type field struct {
	Column string
	Value  string
}

type editPage struct {
	Flashes []flash
	Table   string
	Key     string
	Fields  []field
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := indexPage{
		Flashes:     s.takeFlashes(w, r),
		BlankFields: []int{0, 1, 2},
	}

	tables, err := s.registry.List()
	if err != nil {
		s.serverError(w, err)
		return
	}
	page.Tables = tables
	page.Current = s.currentTable(r, tables)

	if page.Current != "" {
		tbl, err := s.registry.Open(page.Current, nil)
		if err != nil {
			page.Flashes = append(page.Flashes, flash{flashError, err.Error()})
			page.Current = ""
		} else {
			if !slices.Contains(page.Tables, tbl.Name) {
				page.Tables = append(page.Tables, tbl.Name)
				sort.Strings(page.Tables)
			}
			rows := sortRows(tbl)
			if len(rows) > 0 {
				page.Columns = rows[0].Columns()
			}
			for _, row := range rows {
				key, _ := tbl.KeyOf(row)
				values := make([]string, len(page.Columns))
				for i, col := range page.Columns {
					values[i], _ = row.Get(col)
				}
				page.Rows = append(page.Rows, rowView{Key: key, Values: values})
			}

			page.FormColumns = page.Columns
			if len(page.FormColumns) == 0 && tbl.Schema() != nil {
				page.FormColumns = tbl.Schema().ColumnNames()
			}
		}
	}

	s.render(w, "index", page)
}

// currentTable picks ?table=, then the configured default table if it
// exists, then the first table
func (s *Server) currentTable(r *http.Request, tables []string) string {
	if name := r.URL.Query().Get("table"); name != "" {
		return name
	}
	if s.defaultTable != "" && slices.Contains(tables, s.defaultTable) {
		return s.defaultTable
	}
	if len(tables) > 0 {
		return tables[0]
	}
	return ""
}

// sortRows orders rows numerically by primary key when every key is a
// number, and keeps stored order otherwise
func sortRows(tbl *schema.Table) []data.Row {
	rows := tbl.Rows()
	nums := make([]float64, len(rows))
	for i, row := range rows {
		key, _ := tbl.KeyOf(row)
		n, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return rows
		}
		nums[i] = n
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })

	sorted := make([]data.Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	return sorted
}

func (s *Server) addRow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := r.PostFormValue("table")
	if name == "" {
		s.redirectWithFlash(w, r, "", flashError, "Unknown table.")
		return
	}

	row := formRow(r)
	if row.IsEmpty() {
		s.redirectWithFlash(w, r, name, flashError, "Nothing to add.")
		return
	}

	tbl, err := s.registry.Open(name, nil)
	if err != nil {
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
		return
	}
	if err := tbl.Insert(row); err != nil {
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
		return
	}
	s.redirectWithFlash(w, r, name, flashSuccess, fmt.Sprintf("Row added to '%s' successfully!", name))
}

func (s *Server) editRow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := chi.URLParam(r, "table")
	pk := chi.URLParam(r, "pk")

	tbl, err := s.registry.Open(name, nil)
	if err != nil {
		s.redirectWithFlash(w, r, "", flashError, "Error: "+err.Error())
		return
	}

	for _, row := range tbl.Rows() {
		if key, ok := tbl.KeyOf(row); !ok || key != pk {
			continue
		}
		page := editPage{
			Flashes: s.takeFlashes(w, r),
			Table:   name,
			Key:     pk,
		}
		for _, col := range row.Columns() {
			val, _ := row.Get(col)
			page.Fields = append(page.Fields, field{Column: col, Value: val})
		}
		s.render(w, "edit", page)
		return
	}

	s.redirectWithFlash(w, r, name, flashError, fmt.Sprintf("Row #%s not found in '%s'.", pk, name))
}

func (s *Server) updateRow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := r.PostFormValue("table")
	pk := r.PostFormValue("original_pk")
	if name == "" || pk == "" {
		s.redirectWithFlash(w, r, name, flashError, "Update failed.")
		return
	}

	tbl, err := s.registry.Open(name, nil)
	if err != nil {
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
		return
	}

	ok, err := tbl.Update(pk, formRow(r))
	switch {
	case err != nil:
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
	case !ok:
		s.redirectWithFlash(w, r, name, flashError, fmt.Sprintf("Row #%s not found.", pk))
	default:
		s.redirectWithFlash(w, r, name, flashSuccess, "Row updated successfully.")
	}
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := r.PostFormValue("table")
	pk := r.PostFormValue("pk")
	if name == "" || pk == "" {
		s.redirectWithFlash(w, r, name, flashError, "Delete failed.")
		return
	}

	tbl, err := s.registry.Open(name, nil)
	if err != nil {
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
		return
	}

	ok, err := tbl.Delete(pk)
	switch {
	case err != nil:
		s.redirectWithFlash(w, r, name, flashError, "Error: "+err.Error())
	case !ok:
		s.redirectWithFlash(w, r, name, flashError, fmt.Sprintf("Row #%s not found.", pk))
	default:
		s.redirectWithFlash(w, r, name, flashSuccess, fmt.Sprintf("Row #%s deleted.", pk))
	}
}

// formRow builds a row from the paired col/val fields, in form order.
// Pairs with a blank column name are skipped.
func formRow(r *http.Request) data.Row {
	_ = r.ParseForm()
	cols := r.PostForm["col"]
	vals := r.PostForm["val"]

	row := data.NewRow()
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		row.Set(col, val)
	}
	return row
}

func (s *Server) takeFlashes(w http.ResponseWriter, r *http.Request) []flash {
	session, err := s.sessionStore.Get(r, flashSession)
	if err != nil {
		s.logger.Debug("discarding unreadable session", slog.Any("error", err))
	}

	var flashes []flash
	for _, kind := range []string{flashSuccess, flashError} {
		for _, msg := range session.Flashes(kind) {
			if text, ok := msg.(string); ok {
				flashes = append(flashes, flash{Kind: kind, Message: text})
			}
		}
	}
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			s.logger.Error("failed to save session", slog.Any("error", err))
		}
	}
	return flashes
}

func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, table, kind, message string) {
	session, _ := s.sessionStore.Get(r, flashSession)
	session.AddFlash(message, kind)
	if err := session.Save(r, w); err != nil {
		s.logger.Error("failed to save session", slog.Any("error", err))
	}

	target := "/"
	if table != "" {
		target = "/?table=" + url.QueryEscape(table)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, page interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, page); err != nil {
		s.logger.Error("failed to render template", slog.String("template", name), slog.Any("error", err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("admin request failed", slog.Any("error", err))
	http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
}
