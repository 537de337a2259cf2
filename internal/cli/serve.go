package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcalc/internal/server"
	"github.com/matzehuels/gridcalc/pkg/config"
	"github.com/matzehuels/gridcalc/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		driver string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sheets over a JSON HTTP API",
		Long: `Serve the sheets in the configured store over HTTP.

  POST   /sheets                     create an empty sheet
  GET    /sheets                     list sheet ids
  GET    /sheets/{id}                all cells
  DELETE /sheets/{id}                delete a sheet
  GET    /sheets/{id}/cells/{name}   one cell
  PUT    /sheets/{id}/cells/{name}   {"contents": "..."}; returns recalculated cells
  GET    /sheets/{id}/graph          dependency graph (?format=svg, ?values=true)
  GET    /sheets/{id}/export.xlsx    workbook download
  GET    /sheets/{id}/export.csv     values download
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if driver != "" {
				cfg.Store.Driver = driver
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := c.openStore(ctx, cmd, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := server.New(st, cfg.Server, c.Logger)
			if err != nil {
				return err
			}
			c.Logger.Info("serving sheets", "store", cfg.Store.Driver, "cache", cfg.Server.CacheSize)
			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			// Interrupted; main exits 130.
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&driver, "store", "", "store driver: memory, file, redis, mongo or postgres (overrides config)")
	return cmd
}

// openStore connects the configured store behind a spinner.
func (c *CLI) openStore(ctx context.Context, cmd *cobra.Command, cfg config.Store) (store.Store, error) {
	return spin(ctx, cmd.ErrOrStderr(), "Connecting to "+cfg.Driver+" store...", func() (store.Store, error) {
		return store.Open(ctx, cfg)
	})
}
