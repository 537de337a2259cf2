package sheet

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/gridcalc/pkg/depgraph"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/formula"
)

type cell struct {
	contents Contents
	value    Value
}

// Spreadsheet is a set of named cells and the dependencies between them.
//
// The zero value is not usable; use New.
type Spreadsheet struct {
	cells   map[string]*cell
	deps    *depgraph.Graph
	changed bool

	evaluations int // formula evaluations so far; read by tests
}

// New creates an empty, unchanged spreadsheet.
func New() *Spreadsheet {
	return &Spreadsheet{
		cells: make(map[string]*cell),
		deps:  depgraph.New(),
	}
}

// Changed reports whether the sheet was edited since it was created, loaded
// or last saved.
func (s *Spreadsheet) Changed() bool { return s.changed }

// NonemptyCellNames returns the names of all stored cells, sorted.
func (s *Spreadsheet) NonemptyCellNames() []string {
	return slices.Sorted(maps.Keys(s.cells))
}

// Len returns the number of stored cells.
func (s *Spreadsheet) Len() int { return len(s.cells) }

// GetCellContents returns the contents of the named cell, or Text("") if the
// cell is empty. It fails with INVALID_NAME for malformed names.
func (s *Spreadsheet) GetCellContents(name string) (Contents, error) {
	name, err := errs.NormalizeCellName(name)
	if err != nil {
		return nil, err
	}
	if c, ok := s.cells[name]; ok {
		return c.contents, nil
	}
	return Text(""), nil
}

// GetCellValue returns the value of the named cell, or Text("") if the cell
// is empty. It fails with INVALID_NAME for malformed names.
func (s *Spreadsheet) GetCellValue(name string) (Value, error) {
	name, err := errs.NormalizeCellName(name)
	if err != nil {
		return nil, err
	}
	if c, ok := s.cells[name]; ok {
		return c.value, nil
	}
	return Text(""), nil
}

// Cell returns a snapshot of the named cell. The name must already be
// normalized; ok is false for empty cells.
func (s *Spreadsheet) Cell(name string) (Cell, bool) {
	c, ok := s.cells[name]
	if !ok {
		return Cell{}, false
	}
	return Cell{Name: name, Contents: c.contents, Value: c.value}, true
}

// Edges returns every dependency edge, sorted. Dependee is the referenced
// cell and Dependent the formula cell referencing it.
func (s *Spreadsheet) Edges() []depgraph.Pair { return s.deps.Pairs() }

// CellsToRecalculate returns name followed by every cell that transitively
// depends on it, each after the cells it depends on.
func (s *Spreadsheet) CellsToRecalculate(name string) ([]string, error) {
	name, err := errs.NormalizeCellName(name)
	if err != nil {
		return nil, err
	}
	order, err := s.deps.Order(name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeCircular, err, "cell %s", name)
	}
	return order, nil
}

// SetContentsOfCell sets the named cell from raw text and recalculates every
// cell that depends on it.
//
// raw starting with "=" is a formula; raw that parses as a finite number is
// a Number; "" empties the cell; anything else is Text. The returned slice
// starts with the normalized name and lists every affected cell in the order
// it was recalculated.
//
// Errors are INVALID_NAME, INVALID_FORMULA (wrapping a *formula.FormatError)
// and CIRCULAR_DEPENDENCY (wrapping a *depgraph.CycleError). A failed call
// changes nothing.
func (s *Spreadsheet) SetContentsOfCell(name, raw string) ([]string, error) {
	name, err := errs.NormalizeCellName(name)
	if err != nil {
		return nil, err
	}

	var order []string
	if expr, ok := strings.CutPrefix(raw, "="); ok {
		f, err := formula.New(strings.TrimLeft(expr, "="))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormula, err, "cell %s", name)
		}
		order, err = s.setFormula(name, f)
		if err != nil {
			return nil, err
		}
	} else {
		order = s.setLiteral(name, classify(raw))
	}

	for _, n := range order[1:] {
		if c, ok := s.cells[n]; ok {
			if f, ok := c.contents.(Formula); ok {
				c.value = s.evaluate(f)
			}
		}
	}
	s.changed = true
	return order, nil
}

// classify returns nil for "", Number for numeric text and Text otherwise.
func classify(raw string) Contents {
	if raw == "" {
		return nil
	}
	if n, ok := parseNumber(raw); ok {
		return Number(n)
	}
	return Text(raw)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Trim(s, "0123456789+-.eE") != "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (s *Spreadsheet) setLiteral(name string, c Contents) []string {
	s.deps.ReplaceDependees(name, nil)
	if c == nil {
		delete(s.cells, name)
	} else {
		s.cells[name] = &cell{contents: c, value: c.(Value)}
	}
	// name has no dependees now, so no walk from it can come back to it.
	order, _ := s.deps.Order(name)
	return order
}

func (s *Spreadsheet) setFormula(name string, f *formula.Formula) ([]string, error) {
	previous := s.deps.Dependees(name)
	s.deps.ReplaceDependees(name, f.Variables())

	order, err := s.deps.Order(name)
	if err != nil {
		s.deps.ReplaceDependees(name, previous)
		return nil, errs.Wrap(errs.ErrCodeCircular, err, "cell %s", name)
	}

	fc := Formula{f}
	s.cells[name] = &cell{contents: fc, value: s.evaluate(fc)}
	return order, nil
}

func (s *Spreadsheet) evaluate(f Formula) Value {
	s.evaluations++
	v, err := f.Evaluate(s.lookup)
	if err != nil {
		ee, ok := err.(*formula.EvalError)
		if !ok {
			ee = &formula.EvalError{Reason: err.Error()}
		}
		return ErrorValue{Err: ee}
	}
	return Number(v)
}

// lookup resolves a cell to its numeric value. Empty cells, text and
// formula errors are undefined.
func (s *Spreadsheet) lookup(name string) (float64, bool) {
	c, ok := s.cells[name]
	if !ok {
		return 0, false
	}
	n, ok := c.value.(Number)
	return float64(n), ok
}
