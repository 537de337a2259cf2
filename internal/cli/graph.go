package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/render"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
		values bool
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Draw the dependency graph of a sheet",
		Long: `Draw the dependency graph of a sheet as Graphviz DOT or SVG. Each edge points
from a referenced cell to the formula that uses it.`,
		Example: `  gridcalc graph budget.json | dot -Tpng > deps.png
  gridcalc graph budget.json -f svg -o deps.svg --values`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != "dot" && format != "svg" {
				return errs.New(errs.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", format)
			}

			s, err := loadSheet(ctx, args[0], false)
			if err != nil {
				return err
			}
			data := []byte(render.ToDOT(s, render.Options{Values: values}))
			if format == "svg" {
				prog := newProgress(c.Logger)
				data, err = spin(ctx, cmd.ErrOrStderr(), "Rendering SVG...", func() ([]byte, error) {
					return render.RenderSVG(ctx, string(data))
				})
				if err != nil {
					return errs.Wrap(errs.ErrCodeInternal, err, "render svg")
				}
				prog.done("Rendered SVG")
			}

			return writeOutput(ctx, cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&values, "values", false, "label nodes with contents and values")
	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(ctx context.Context, cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "write %s", path)
	}
	loggerFromContext(ctx).Debug("wrote", "path", path, "bytes", len(data))
	printSuccess(cmd.OutOrStdout(), "Wrote %d bytes", len(data))
	printFile(cmd.OutOrStdout(), path)
	return nil
}
