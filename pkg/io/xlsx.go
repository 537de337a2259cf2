package io

import (
	"io"

	"github.com/xuri/excelize/v2"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// DefaultSheetName is the worksheet written by WriteXLSX when none is given.
const DefaultSheetName = "Sheet1"

// XLSXOptions selects the worksheet to write or read.
type XLSXOptions struct {
	// Sheet is the worksheet name. WriteXLSX defaults to DefaultSheetName;
	// ReadXLSX defaults to the first worksheet.
	Sheet string
}

// WriteXLSX writes s as a single-worksheet workbook to w.
func WriteXLSX(s *sheet.Spreadsheet, w io.Writer, opts XLSXOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	name := opts.Sheet
	if name == "" {
		name = DefaultSheetName
	}
	if first := f.GetSheetName(0); first != name {
		if err := f.SetSheetName(first, name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "sheet name %q", name)
		}
	}

	for _, ref := range s.NonemptyCellNames() {
		if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
			return errs.Wrap(errs.ErrCodeUnsupported, err, "cell %s", ref)
		}
		c, _ := s.Cell(ref)
		if err := writeCell(f, name, c); err != nil {
			return errs.Wrap(errs.ErrCodeReadWrite, err, "cell %s", ref)
		}
	}

	if err := f.Write(w); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "write workbook")
	}
	return nil
}

func writeCell(f *excelize.File, sh string, c sheet.Cell) error {
	switch contents := c.Contents.(type) {
	case sheet.Text:
		return f.SetCellStr(sh, c.Name, string(contents))
	case sheet.Number:
		return f.SetCellFloat(sh, c.Name, float64(contents), -1, 64)
	case sheet.Formula:
		var err error
		switch v := c.Value.(type) {
		case sheet.Number:
			err = f.SetCellFloat(sh, c.Name, float64(v), -1, 64)
		default:
			err = f.SetCellStr(sh, c.Name, v.String())
		}
		if err != nil {
			return err
		}
		return f.SetCellFormula(sh, c.Name, contents.String())
	}
	return nil
}

// ReadXLSX reads one worksheet from r into a new spreadsheet. Cells with a
// formula are entered as "=" + formula, others as their raw value.
func ReadXLSX(r io.Reader, opts XLSXOptions) (*sheet.Spreadsheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "open workbook")
	}
	defer f.Close()

	name := opts.Sheet
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, errs.New(errs.ErrCodeReadWrite, "workbook has no worksheets")
		}
		name = list[0]
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "read worksheet %q", name)
	}

	s := sheet.New()
	for y, row := range rows {
		for x, raw := range row {
			ref, err := excelize.CoordinatesToCellName(x+1, y+1)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "row %d column %d", y+1, x+1)
			}
			expr, err := f.GetCellFormula(name, ref)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "cell %s", ref)
			}
			if expr != "" {
				raw = "=" + expr
			}
			if raw == "" {
				continue
			}
			if _, err := s.SetContentsOfCell(ref, raw); err != nil {
				return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "cell %s", ref)
			}
		}
	}
	return s, nil
}
