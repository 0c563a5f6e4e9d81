package commands

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mirror version information",
	Long:  `Display version, build time, commit hash, and platform information for the mirror binary.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printVersion(cmd.OutOrStdout(), version.Get(), jsonOutput)
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}

func printVersion(w io.Writer, info version.Info, jsonOutput bool) error {
	if jsonOutput {
		output, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to format version info")
		}
		fmt.Fprintln(w, string(output))
		return nil
	}
	fmt.Fprintln(w, info.String())
	fmt.Fprintf(w, "Platform: %s\n", info.Platform)
	fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	return nil
}
