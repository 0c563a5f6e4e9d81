package commands

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/mirror"
)

// CheckCmd verifies that a generated file matches its source
var CheckCmd = &cobra.Command{
	Use:   "check <input> <generated>",
	Short: "Check whether a generated file is up to date",
	Long: `Translate the input in memory and compare it with an existing
generated file. Exits non-zero when the file is missing or differs, so it
can guard CI.

Examples:
  mirror check Models.cs web/models.js
  mirror check Models.cs web/models.js --marker ClientModel`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := Config()
		unfiltered, _ := cmd.Flags().GetBool("unfiltered")
		opts := compileOptions{
			Input:      args[0],
			Marker:     stringFlag(cmd, "marker", ""),
			Unfiltered: unfiltered || c.Mirror.Unfiltered,
		}
		return runCheck(c, opts, args[1], cmd.OutOrStdout())
	},
}

func init() {
	CheckCmd.Flags().String("marker", "", "Attribute that selects classes (default: mirror.marker)")
	CheckCmd.Flags().Bool("unfiltered", false, "Translate every class, ignoring the marker")
}

func runCheck(c *am.Config, opts compileOptions, existing string, stdout io.Writer) error {
	compiler := newCompiler(c, opts.Marker)

	var generated strings.Builder
	var err error
	if opts.Unfiltered {
		_, err = compiler.EmitJSFile(&generated, opts.Input)
	} else {
		_, err = compiler.CompileFile(&generated, opts.Input)
	}
	if err != nil {
		return err
	}

	result, err := mirror.Check(existing, generated.String())
	if err != nil {
		return err
	}

	if result.UpToDate {
		pterm.Success.WithWriter(stdout).Println(result.Summary())
		return nil
	}
	pterm.Error.WithWriter(stdout).Println(result.Summary())
	return result.Err()
}
