// Package pkg provides the core libraries for gridcalc.
//
// # Overview
//
// gridcalc is a spreadsheet engine: cells hold text, numbers or formulas over
// other cells, and every edit recalculates exactly the cells that depend on
// the edited one. The pkg directory is organized into three areas:
//
//  1. Engine - [formula], [depgraph] and [sheet]
//  2. Exchange - [io] (xlsx and csv) and [render] (DOT and SVG graphs)
//  3. Infrastructure - [store], [config], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The data flow for a single edit:
//
//	raw contents ("=A1*2")
//	         ↓
//	    [formula] package (tokenize, validate, canonicalize)
//	         ↓
//	    [depgraph] package (replace edges, reject cycles, order dependents)
//	         ↓
//	    [sheet] package (store contents, re-evaluate affected cells)
//	         ↓
//	    [store] or JSON file (persist)
//
// # Quick Start
//
//	s := sheet.New()
//	s.SetContentsOfCell("A1", "3")
//	affected, err := s.SetContentsOfCell("B1", "=A1*2")
//	// affected == [B1], B1 evaluates to 6
//
//	if err := s.Save("budget.json"); err != nil {
//	    return err
//	}
//
// # Main Packages
//
// [formula] - Tokenizer, validating parser and evaluator for infix formulas
// over numbers and cell variables.
//
// [depgraph] - Directed dependency graph with cycle-checked topological
// ordering of everything downstream of a changed cell.
//
// [sheet] - The spreadsheet itself: cell contents, cached values and the
// JSON document format.
//
// [store] - Sheet persistence behind one interface, backed by memory, local
// files, Redis, MongoDB or PostgreSQL.
//
// [io] - Excel workbook import/export and CSV export.
//
// [render] - Graphviz DOT and SVG renderings of the dependency graph.
//
// [config] - TOML configuration with .env and environment overrides.
//
// [observability] - Hook interfaces for edits, persistence and store calls.
//
// [errors] - Coded errors shared by the CLI and the HTTP server, plus cell
// name and identifier validation.
//
// [buildinfo] - Version information for the binary.
package pkg
