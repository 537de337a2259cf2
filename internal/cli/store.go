package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage sheets in the configured store",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sheet ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx, cmd, c.Config.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			ids, err := st.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				printInfo(out, "No sheets in %s store", c.Config.Store.Driver)
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete stored sheets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx, cmd, c.Config.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted %s", id)
			}
			return nil
		},
	}
}

// storePathCommand prints where the file store keeps sheets.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Store.Driver != config.DriverFile {
				return errs.New(errs.ErrCodeUnsupported, "store path needs the file driver, configured driver is %q", c.Config.Store.Driver)
			}
			dir := c.Config.Store.Dir
			if dir == "" {
				d, err := store.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func (c *CLI) storePushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push FILE ID",
		Short: "Copy a sheet file into the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadSheet(ctx, args[0], false)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cmd, c.Config.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := store.SaveSheet(ctx, st, args[1], s); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Pushed %d cells to %s", s.Len(), args[1])
			return nil
		},
	}
}

func (c *CLI) storePullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull ID FILE",
		Short: "Copy a stored sheet to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx, cmd, c.Config.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := store.LoadSheet(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := saveSheet(ctx, s, args[1]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Pulled %d cells", s.Len())
			printFile(cmd.OutOrStdout(), args[1])
			return nil
		},
	}
}
