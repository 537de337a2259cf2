package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcalc/pkg/config"
	"github.com/matzehuels/gridcalc/pkg/store"
)

// completionGenerators writes the completion script for each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := slices.Sorted(maps.Keys(completionGenerators))

	return &cobra.Command{
		Use:   "completion " + strings.Join(shells, "|"),
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Besides commands and flags it
completes sheet files (*.json) for set, get, show, graph, export and edit,
workbooks (*.xlsx) for import, and stored sheet ids for store delete and pull.`,
		Example: `  source <(gridcalc completion bash)
  gridcalc completion zsh > "${fpath[1]}/_gridcalc"
  gridcalc completion fish > ~/.config/fish/completions/gridcalc.fish
  gridcalc completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionGenerators[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerCompletions attaches argument completion to the commands that take
// sheet files, workbooks or stored ids.
func (c *CLI) registerCompletions(root *cobra.Command) {
	completions := map[string]cobra.CompletionFunc{
		"set":          completeFiles("json"),
		"get":          completeFiles("json"),
		"show":         completeFiles("json"),
		"graph":        completeFiles("json"),
		"export":       completeFiles("json"),
		"edit":         completeFiles("json"),
		"import":       completeFiles("xlsx"),
		"store delete": c.completeStoreIDs,
		"store pull":   c.completeStoreIDs,
	}
	for path, fn := range completions {
		cmd, _, err := root.Find(strings.Fields(path))
		if err != nil || cmd == root {
			continue
		}
		cmd.ValidArgsFunction = fn
	}
}

// completeFiles completes the first positional argument with files carrying
// one of exts.
func completeFiles(exts ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeStoreIDs completes stored sheet ids from the configured store.
// The second argument of pull is a local path.
func (c *CLI) completeStoreIDs(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if cmd.Name() == "pull" && len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	ids, err := st.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []cobra.Completion
	for _, id := range ids {
		if strings.HasPrefix(id, toComplete) && !slices.Contains(args, id) {
			out = append(out, id)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
