package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/formula"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func (c *CLI) evalCommand() *cobra.Command {
	var (
		vars      []string
		sheetPath string
	)

	cmd := &cobra.Command{
		Use:   "eval FORMULA",
		Short: "Evaluate a formula without storing it",
		Long: `Evaluate a formula once. Variables come from --var assignments and, with
--sheet, from the numeric values of a saved sheet; --var wins.`,
		Example: `  gridcalc eval '(A1 + 2) * b2' --var A1=3 --var B2=4
  gridcalc eval 'A1 / B1' --sheet budget.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formula.New(strings.TrimLeft(args[0], "="))
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidFormula, err, "parse")
			}
			loggerFromContext(cmd.Context()).Debug("parsed", "formula", f.String(), "variables", f.Variables())

			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			var s *sheet.Spreadsheet
			if sheetPath != "" {
				if s, err = loadSheet(cmd.Context(), sheetPath, false); err != nil {
					return err
				}
			}

			result, err := f.Evaluate(func(name string) (float64, bool) {
				if v, ok := values[name]; ok {
					return v, true
				}
				if s == nil {
					return 0, false
				}
				v, _ := s.GetCellValue(name)
				n, ok := v.(sheet.Number)
				return float64(n), ok
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formula.FormatNumber(result))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable assignment NAME=NUMBER (repeatable)")
	cmd.Flags().StringVar(&sheetPath, "sheet", "", "read variables from this sheet file")
	return cmd
}

// parseVars turns NAME=NUMBER assignments into a lookup table keyed by
// normalized cell name.
func parseVars(assignments []string) (map[string]float64, error) {
	values := make(map[string]float64, len(assignments))
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "--var %q: want NAME=NUMBER", a)
		}
		norm, err := errs.NormalizeCellName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "--var %s", norm)
		}
		values[norm] = v
	}
	return values, nil
}
