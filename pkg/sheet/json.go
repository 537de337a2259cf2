package sheet

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

type document struct {
	Cells map[string]record `json:"Cells"`
}

type record struct {
	StringForm string `json:"StringForm"`
}

// WriteJSON encodes the sheet as indented JSON. It does not change the
// Changed flag.
func (s *Spreadsheet) WriteJSON(w io.Writer) error {
	doc := document{Cells: make(map[string]record, len(s.cells))}
	for name, c := range s.cells {
		doc.Cells[name] = record{StringForm: c.contents.StringForm()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "encode sheet")
	}
	return nil
}

// ReadJSON decodes a sheet and replays every cell, in name order, through
// SetContentsOfCell on a new Spreadsheet. Malformed JSON, invalid names,
// invalid formulas and circular dependencies all fail with READ_WRITE, as
// does anything other than exactly one JSON object (null, trailing data or a
// second document). The returned sheet is unchanged. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Spreadsheet, error) {
	var raw *document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "decode sheet")
	}
	if raw == nil {
		return nil, errs.New(errs.ErrCodeReadWrite, "decode sheet: document is null")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("more than one document")
		}
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "decode sheet: trailing data")
	}
	doc := *raw

	s := New()
	for _, name := range slices.Sorted(maps.Keys(doc.Cells)) {
		if _, err := s.SetContentsOfCell(name, doc.Cells[name].StringForm); err != nil {
			return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "cell %s", name)
		}
	}
	s.changed = false
	return s, nil
}

// Load reads a sheet from the JSON file at path.
func Load(path string) (*Spreadsheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "open %s", path)
	}
	defer f.Close()

	s, err := ReadJSON(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "load %s", path)
	}
	return s, nil
}

// Save writes the sheet to path. The file is written to a temporary file in
// the same directory and renamed into place, so a failed save leaves any
// existing file intact. Changed is cleared only when the save succeeds.
func (s *Spreadsheet) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "save %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := s.WriteJSON(tmp); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeReadWrite, err, "save %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "save %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "save %s", path)
	}

	s.changed = false
	return nil
}
