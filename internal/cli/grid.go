package cli

import (
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// gridRef converts 1-based column and row numbers to a cell name.
func gridRef(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// gridColumn returns the letters of a 1-based column number.
func gridColumn(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "?"
	}
	return name
}

// gridExtent returns the number of columns and rows needed to show every
// non-empty cell, and the names that do not fit a worksheet grid.
func gridExtent(s *sheet.Spreadsheet) (cols, rows int, outside []string) {
	for _, name := range s.NonemptyCellNames() {
		col, row, err := excelize.CellNameToCoordinates(name)
		if err != nil {
			outside = append(outside, name)
			continue
		}
		cols, rows = max(cols, col), max(rows, row)
	}
	return cols, rows, outside
}
