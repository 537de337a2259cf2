package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// Options configures dependency graph rendering.
type Options struct {
	// Values adds each cell's contents and value to its label.
	// When false, only the cell name is shown.
	Values bool
}

// ToDOT converts the dependency graph of s to Graphviz DOT.
func ToDOT(s *sheet.Spreadsheet, opts Options) string {
	edges := s.Edges()
	names := s.NonemptyCellNames()
	for _, e := range edges {
		names = append(names, e.Dependee, e.Dependent)
	}
	slices.Sort(names)
	names = slices.Compact(names)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range names {
		c, ok := s.Cell(name)
		attrs := fmtAttrs(c, ok, fmtLabel(name, c, ok, opts.Values))
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Dependee, e.Dependent)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(name string, c sheet.Cell, ok, values bool) string {
	if !values || !ok {
		return name
	}
	if _, isFormula := c.Contents.(sheet.Formula); isFormula {
		return name + "\n" + c.StringForm() + "\n" + c.Value.String()
	}
	return name + "\n" + c.Value.String()
}

func fmtAttrs(c sheet.Cell, ok bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !ok {
		return append(attrs, "style=\"rounded,dashed\"", "color=grey", "fontcolor=grey")
	}
	if _, isFormula := c.Contents.(sheet.Formula); !isFormula {
		return attrs
	}
	if ev, isErr := c.Value.(sheet.ErrorValue); isErr {
		return append(attrs, "color=red", "fontcolor=red", fmt.Sprintf("tooltip=%q", ev.Reason()))
	}
	return append(attrs, "fillcolor=lightblue")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container instead of using Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
