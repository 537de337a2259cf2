// Package cli implements the gridcalc command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcalc/pkg/buildinfo"
	"github.com/matzehuels/gridcalc/pkg/config"
	"github.com/matzehuels/gridcalc/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "gridcalc"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command's PersistentPreRunE.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gridcalc evaluates spreadsheets of formulas",
		Long: `gridcalc is a spreadsheet engine for the terminal. Cells hold text, numbers
or formulas over other cells; every edit recalculates the cells that depend on it.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridcalc/config.toml)")

	root.AddCommand(c.setCommand())
	root.AddCommand(c.getCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// setup loads the configuration, applies the log level and registers the
// logging hooks. --verbose wins over the configured level.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := LogInfo
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		level = lvl
	} else {
		c.Logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	hooks := &logHooks{logger: c.Logger}
	observability.SetEditHooks(hooks)
	observability.SetPersistHooks(hooks)
	observability.SetStoreHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
