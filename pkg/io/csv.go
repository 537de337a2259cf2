package io

import (
	"encoding/csv"
	"io"

	"github.com/xuri/excelize/v2"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// WriteCSV writes the displayed value of every cell from A1 to the
// bottom-right non-empty cell. Empty cells are empty fields and formula
// errors are written as "#ERROR".
func WriteCSV(s *sheet.Spreadsheet, w io.Writer) error {
	type pos struct{ col, row int }
	values := make(map[pos]string, s.Len())
	var cols, rows int

	for _, ref := range s.NonemptyCellNames() {
		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			return errs.Wrap(errs.ErrCodeUnsupported, err, "cell %s", ref)
		}
		c, _ := s.Cell(ref)
		values[pos{col, row}] = c.Value.String()
		cols, rows = max(cols, col), max(rows, row)
	}

	cw := csv.NewWriter(w)
	record := make([]string, cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			record[c-1] = values[pos{c, r}]
		}
		if err := cw.Write(record); err != nil {
			return errs.Wrap(errs.ErrCodeReadWrite, err, "write row %d", r)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "write csv")
	}
	return nil
}
