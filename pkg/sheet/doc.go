// Package sheet implements a spreadsheet of named cells with incremental
// recalculation.
//
// # Cells
//
// A cell name is one or more ASCII letters followed by one or more digits.
// Names are case-insensitive and stored upper-cased. A cell holds one of
// three kinds of [Contents]:
//
//   - [Text]: any string that is neither a number nor a formula
//   - [Number]: a finite float64
//   - [Formula]: a validated formula, entered with a leading "="
//
// Every stored cell also has a [Value]. Text and numbers are their own
// value; a formula's value is a [Number] or an [ErrorValue] when it cannot be
// evaluated. Cells that were never set, or were set to "", are not stored
// and read back as Text("").
//
// # Recalculation
//
// [Spreadsheet.SetContentsOfCell] replaces the edited cell's dependency edges
// with its formula's variables, orders every cell that transitively depends
// on it, and re-evaluates each formula in that order exactly once. An edit
// that would make a cell depend on itself fails with CIRCULAR_DEPENDENCY
// and leaves the sheet untouched.
//
//	s := sheet.New()
//	s.SetContentsOfCell("A1", "3")
//	s.SetContentsOfCell("B1", "=A1*2")
//	order, _ := s.SetContentsOfCell("A1", "5") // [A1 B1]
//	v, _ := s.GetCellValue("B1")               // Number(10)
//
// # Persistence
//
// Sheets are stored as JSON:
//
//	{
//	  "Cells": {
//	    "A1": {"StringForm": "5"},
//	    "B1": {"StringForm": "=A1*2"}
//	  }
//	}
//
// [ReadJSON] and [Load] replay each record through SetContentsOfCell into a
// fresh sheet, so dependencies and values are always rebuilt. Any failure is
// reported as READ_WRITE and no partially loaded sheet is returned.
//
// # Concurrency
//
// A Spreadsheet is not safe for concurrent use. Separate instances share no
// state.
package sheet
