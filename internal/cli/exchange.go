package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
	gridio "github.com/matzehuels/gridcalc/pkg/io"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

func (c *CLI) exportCommand() *cobra.Command {
	var (
		output    string
		sheetName string
	)

	cmd := &cobra.Command{
		Use:   "export FILE -o OUT.xlsx|OUT.csv",
		Short: "Export a sheet to xlsx or csv",
		Long: `Export a sheet. The format follows the output extension: .xlsx keeps formulas
and their cached values, .csv writes the displayed values only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				return errs.New(errs.ErrCodeInvalidInput, "--output is required")
			}

			var write func(*sheet.Spreadsheet, *bytes.Buffer) error
			switch strings.ToLower(filepath.Ext(output)) {
			case ".xlsx":
				write = func(s *sheet.Spreadsheet, buf *bytes.Buffer) error {
					return gridio.WriteXLSX(s, buf, gridio.XLSXOptions{Sheet: sheetName})
				}
			case ".csv":
				write = func(s *sheet.Spreadsheet, buf *bytes.Buffer) error {
					return gridio.WriteCSV(s, buf)
				}
			default:
				return errs.New(errs.ErrCodeUnsupported, "cannot export to %q (want .xlsx or .csv)", output)
			}

			prog := newProgress(c.Logger)
			s, err := loadSheet(ctx, args[0], false)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := write(s, &buf); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return errs.Wrap(errs.ErrCodeReadWrite, err, "write %s", output)
			}
			prog.done("Exported")

			printSuccess(cmd.OutOrStdout(), "Exported %d cells", s.Len())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.xlsx or .csv)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet name for xlsx output (default Sheet1)")
	return cmd
}

func (c *CLI) importCommand() *cobra.Command {
	var (
		output    string
		sheetName string
	)

	cmd := &cobra.Command{
		Use:   "import IN.xlsx -o OUT.json",
		Short: "Import a worksheet from an xlsx workbook",
		Long: `Import one worksheet (the first unless --sheet is given). Formula cells are
re-parsed and recalculated; every other cell is read as its raw text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				return errs.New(errs.ErrCodeInvalidInput, "--output is required")
			}

			prog := newProgress(c.Logger)
			f, err := os.Open(args[0])
			if err != nil {
				return errs.Wrap(errs.ErrCodeReadWrite, err, "open %s", args[0])
			}
			defer f.Close()

			s, err := spin(ctx, cmd.ErrOrStderr(), "Reading workbook...", func() (*sheet.Spreadsheet, error) {
				return gridio.ReadXLSX(f, gridio.XLSXOptions{Sheet: sheetName})
			})
			if err != nil {
				return err
			}
			if err := saveSheet(ctx, s, output); err != nil {
				return err
			}
			prog.done("Imported")

			printSuccess(cmd.OutOrStdout(), "Imported %d cells", s.Len())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output sheet file (.json)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet to import (default first)")
	return cmd
}
