package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func (c *CLI) showCommand() *cobra.Command {
	var showContents bool

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a sheet as a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSheet(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.Len() == 0 {
				printInfo(out, "%s is empty", args[0])
				return nil
			}
			cols, rows, outside := gridExtent(s)
			if cols > 0 {
				fmt.Fprintln(out, renderGrid(s, cols, rows, showContents))
			}
			if len(outside) > 0 {
				printWarning(out, "%d cells outside the grid: %s", len(outside), strings.Join(outside, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showContents, "contents", "c", false, "show contents instead of values")
	return cmd
}

// renderGrid draws columns A..cols and rows 1..rows as a bordered table.
func renderGrid(s *sheet.Spreadsheet, cols, rows int, showContents bool) string {
	headers := make([]string, cols+1)
	for col := 1; col <= cols; col++ {
		headers[col] = gridColumn(col)
	}

	data := make([][]string, rows)
	kinds := make([][]sheet.Value, rows)
	for row := 1; row <= rows; row++ {
		line := make([]string, cols+1)
		vals := make([]sheet.Value, cols+1)
		line[0] = strconv.Itoa(row)
		for col := 1; col <= cols; col++ {
			cell, ok := s.Cell(gridRef(col, row))
			if !ok {
				continue
			}
			vals[col] = cell.Value
			if showContents {
				line[col] = cell.StringForm()
			} else {
				line[col] = cell.Value.String()
			}
		}
		data[row-1] = line
		kinds[row-1] = vals
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			switch kinds[row][col].(type) {
			case sheet.Number:
				return cellStyle.Foreground(colorCyan).Align(lipgloss.Right)
			case sheet.ErrorValue:
				return cellStyle.Foreground(colorRed)
			}
			return cellStyle
		})
	return t.Render()
}
