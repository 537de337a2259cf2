package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/gridcalc/pkg/buildinfo"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	gridio "github.com/matzehuels/gridcalc/pkg/io"
	"github.com/matzehuels/gridcalc/pkg/observability"
	"github.com/matzehuels/gridcalc/pkg/render"
	"github.com/matzehuels/gridcalc/pkg/sheet"
	"github.com/matzehuels/gridcalc/pkg/store"
)

const maxBodyBytes = 1 << 20

// cellJSON is a cell as returned by the API.
type cellJSON struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Contents string `json:"contents"`
	Value    string `json:"value"`
	Error    string `json:"error,omitempty"`
}

// valueJSON is a recalculated cell in an edit response.
type valueJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

type sheetJSON struct {
	ID    string     `json:"id"`
	Cells []cellJSON `json:"cells"`
}

func kindOf(c sheet.Contents) string {
	switch c.(type) {
	case sheet.Text:
		return "text"
	case sheet.Number:
		return "number"
	case sheet.Formula:
		return "formula"
	}
	return "empty"
}

func newValueJSON(name string, v sheet.Value) valueJSON {
	out := valueJSON{Name: name}
	if v == nil {
		return out
	}
	out.Value = v.String()
	if ev, ok := v.(sheet.ErrorValue); ok {
		out.Error = ev.Reason()
	}
	return out
}

func newCellJSON(name string, c sheet.Cell, ok bool) cellJSON {
	if !ok {
		return cellJSON{Name: name, Kind: "empty"}
	}
	v := newValueJSON(name, c.Value)
	return cellJSON{
		Name:     name,
		Kind:     kindOf(c.Contents),
		Contents: c.StringForm(),
		Value:    v.Value,
		Error:    v.Error,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sh := sheet.New()
	if err := store.SaveSheet(r.Context(), s.store, id, sh); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sheets.Add(id, &openSheet{s: sh})
	w.Header().Set("Location", "/sheets/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := s.lock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var doc bytes.Buffer
	err = o.s.WriteJSON(&doc)
	out := sheetJSON{ID: id, Cells: []cellJSON{}}
	for _, name := range o.s.NonemptyCellNames() {
		c, ok := o.s.Cell(name)
		out.Cells = append(out.Cells, newCellJSON(name, c, ok))
	}
	o.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := `"` + store.Hash(doc.Bytes()) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Hold the cache and the open copy so no edit can save the sheet back.
	s.openMu.Lock()
	defer s.openMu.Unlock()
	o, cached := s.sheets.Peek(id)
	if cached {
		o.mu.Lock()
		defer o.mu.Unlock()
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if cached {
		o.deleted = true
	}
	s.forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCell(w http.ResponseWriter, r *http.Request) {
	id, name := chi.URLParam(r, "id"), chi.URLParam(r, "name")
	norm, err := errs.NormalizeCellName(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.lock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, ok := o.s.Cell(norm)
	o.mu.Unlock()
	writeJSON(w, http.StatusOK, newCellJSON(norm, c, ok))
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, name := chi.URLParam(r, "id"), chi.URLParam(r, "name")

	var body struct {
		Contents *string `json:"contents"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode body"))
		return
	}
	if body.Contents == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, `body must set "contents"`))
		return
	}

	o, err := s.lock(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer o.mu.Unlock()

	start := time.Now()
	affected, err := o.s.SetContentsOfCell(name, *body.Contents)
	observability.Edit().OnEdit(ctx, id, name, affected, time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := store.SaveSheet(ctx, s.store, id, o.s); err != nil {
		// The open copy is ahead of the store; reload on next access.
		s.forget(id)
		s.writeError(w, r, err)
		return
	}

	updated := make([]valueJSON, 0, len(affected))
	for _, n := range affected {
		v, _ := o.s.GetCellValue(n)
		updated = append(updated, newValueJSON(n, v))
	}
	writeJSON(w, http.StatusOK, map[string][]valueJSON{"updated": updated})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	values := false
	if v := q.Get("values"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid values %q", v))
			return
		}
		values = b
	}
	format := q.Get("format")
	if format != "" && format != "dot" && format != "svg" {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", format))
		return
	}

	o, err := s.lock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := render.ToDOT(o.s, render.Options{Values: values})
	o.mu.Unlock()

	if format != "svg" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
		return
	}
	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		func(sh *sheet.Spreadsheet, buf *bytes.Buffer) error {
			return gridio.WriteXLSX(sh, buf, gridio.XLSXOptions{Sheet: r.URL.Query().Get("sheet")})
		})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", "text/csv; charset=utf-8",
		func(sh *sheet.Spreadsheet, buf *bytes.Buffer) error {
			return gridio.WriteCSV(sh, buf)
		})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(*sheet.Spreadsheet, *bytes.Buffer) error) {
	id := chi.URLParam(r, "id")
	o, err := s.lock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = write(o.s, &buf)
	o.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.`+ext+`"`)
	_, _ = w.Write(buf.Bytes())
}
