package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage mirror configuration",
	Long: `am: manage mirror configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.mirror/am.toml)
3. Project config (nearest mirror.toml, searching up directories)
4. Environment variables (MIRROR_* prefix, e.g. MIRROR_MIRROR_MARKER)
5. Command line flags

Examples:
  mirror am show                  # Show effective configuration
  mirror am show --format json    # Show configuration as JSON
  mirror am show --sources        # Show where each value comes from
  mirror am validate              # Validate current configuration
  mirror am init                  # Write mirror.toml in this directory`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		sources, _ := cmd.Flags().GetBool("sources")
		if sources {
			return runAmShow(cmd.OutOrStdout(), am.GetConfigIntrospection(), format)
		}
		return runAmShow(cmd.OutOrStdout(), Config(), format)
	},
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup already rejected an invalid config; validate again for --config files
		if err := Config().Validate(); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
		return nil
	},
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to mirror.toml",
	Long: `Write the effective configuration to mirror.toml in --dir (default: the
current directory). An existing file is rotated to .back1, .back2, .back3.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		defaults, _ := cmd.Flags().GetBool("defaults")
		c := Config()
		if defaults {
			c = am.DefaultConfig()
		}
		return runAmInit(cmd.OutOrStdout(), dir, c)
	},
}

func init() {
	amShowCmd.Flags().String("format", am.FormatTOML, "Output format: toml, json, yaml")
	amShowCmd.Flags().Bool("sources", false, "Show the source of every setting")
	amInitCmd.Flags().String("dir", ".", "Directory to write mirror.toml in")
	amInitCmd.Flags().Bool("defaults", false, "Write built-in defaults instead of the effective configuration")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(w io.Writer, v interface{}, format string) error {
	data, err := am.Render(v, format)
	if err != nil {
		return err
	}
	if format != am.FormatJSON {
		fmt.Fprintln(w, "# mirror configuration")
	}
	_, err = w.Write(data)
	return err
}

func runAmInit(w io.Writer, dir string, c *am.Config) error {
	path, err := am.WriteProjectConfig(dir, c)
	if err != nil {
		return err
	}
	pterm.Success.WithWriter(w).Printfln("Wrote %s", path)
	return nil
}
