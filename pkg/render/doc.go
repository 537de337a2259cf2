// Package render draws a spreadsheet's dependency graph.
//
// [ToDOT] produces Graphviz DOT with one node per cell that is non-empty or
// referenced by a formula, and one edge per dependency, pointing from the
// referenced cell to the formula cell that reads it. [RenderSVG] lays the DOT
// out with the embedded Graphviz from go-graphviz, so no external binary is
// needed.
//
//	dot := render.ToDOT(s, render.Options{Values: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Node styles:
//   - text and number cells: plain boxes
//   - formula cells: blue fill
//   - formula cells whose value is an error: red outline and text
//   - referenced but empty cells: dashed grey outline
package render
