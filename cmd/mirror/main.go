package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/mirror/cmd/mirror/commands"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

var rootCmd = &cobra.Command{
	Use:   commands.LegacyUsage,
	Short: "mirror - translate C#-style classes into JavaScript modules",
	Long: `mirror - translate C#-style classes into JavaScript module-pattern functions.

Classes carrying the marker attribute ([JavaScript] by default) become
functions that keep private members in a closure and return an object
exposing the public ones.

With positional arguments mirror behaves like the original tool: the first
is the input, and output goes to stdout unless more than two arguments are
given, in which case the second names the output file.

Available commands:
  compile - Translate marked classes
  emit    - Translate every class, ignoring the marker
  check   - Check whether a generated file is up to date
  watch   - Recompile whenever the input changes
  batch   - Compile every unit listed in a manifest
  lsp     - Run the language server
  am      - Manage mirror configuration ("I am")
  version - Show version information

Examples:
  mirror Models.cs                       # marked classes to stdout
  mirror compile Models.cs -o models.js  # marked classes to a file
  mirror check Models.cs models.js       # fail when models.js is stale
  mirror am show --sources               # where each setting comes from`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		configPath, _ := cmd.Flags().GetString("config")
		return commands.Setup(configPath, verbosity, jsonLogs)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return commands.RunLegacy(commands.Config(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this file instead of the config cascade")

	rootCmd.AddCommand(commands.CompileCmd)
	rootCmd.AddCommand(commands.EmitCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err == nil {
		return
	}

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}
