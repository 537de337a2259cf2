// Package io converts spreadsheets to and from exchange formats.
//
// # Formats
//
//   - xlsx: [WriteXLSX] and [ReadXLSX] using excelize. Text becomes string
//     cells, numbers become numeric cells, formulas become cell formulas in
//     canonical form with their last value cached.
//   - csv: [WriteCSV] writes evaluated values as a grid from A1 to the
//     bottom-right non-empty cell. It is an export only; values lose their
//     formulas.
//
// The native JSON format lives in package sheet ([sheet.Spreadsheet.WriteJSON]).
//
// # Import
//
// [ReadXLSX] reads one worksheet and replays every non-empty cell through
// SetContentsOfCell, so imported formulas are validated exactly like typed
// ones. Workbook formulas outside the supported grammar, such as function
// calls or ranges, fail the import with READ_WRITE naming the cell.
package io
