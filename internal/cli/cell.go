package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE CELL CONTENTS",
		Short: "Set a cell and recalculate its dependents",
		Long: `Set a cell and recalculate every cell that depends on it.

CONTENTS starting with "=" is a formula, a number is stored as a number and
anything else as text. An empty CONTENTS clears the cell. FILE is created if
it does not exist.`,
		Example: `  gridcalc set budget.json A1 1200
  gridcalc set budget.json B1 '=A1*12'
  gridcalc set budget.json A1 ''`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, name, raw := args[0], args[1], args[2]

			s, err := loadSheet(ctx, path, true)
			if err != nil {
				return err
			}
			affected, err := setCell(ctx, s, path, name, raw)
			if err != nil {
				return err
			}
			if err := saveSheet(ctx, s, path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Set %s", affected[0])
			printUpdated(out, s, affected)
			return nil
		},
	}
}

func (c *CLI) getCommand() *cobra.Command {
	var valueOnly bool

	cmd := &cobra.Command{
		Use:   "get FILE CELL",
		Short: "Print a cell's contents and value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSheet(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			name, err := errs.NormalizeCellName(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cell, ok := s.Cell(name)
			if valueOnly {
				if ok {
					fmt.Fprintln(out, cell.Value.String())
				} else {
					fmt.Fprintln(out)
				}
				return nil
			}
			if !ok {
				printInfo(out, "%s is empty", name)
				return nil
			}
			printKeyValue(out, "Cell", StyleTitle.Render(name))
			printKeyValue(out, "Contents", renderContents(cell.Contents))
			printKeyValue(out, "Value", renderValue(cell.Value))
			if ev, isErr := cell.Value.(sheet.ErrorValue); isErr {
				printKeyValue(out, "Reason", StyleError.Render(ev.Reason()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&valueOnly, "value", false, "print only the displayed value")
	return cmd
}
