package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/mirror"
)

// CompileCmd translates the marked classes of one file
var CompileCmd = &cobra.Command{
	Use:   "compile <input>",
	Short: "Translate marked classes into JavaScript modules",
	Long: `Translate every class carrying the marker attribute into a
module-pattern JavaScript function.

Output goes to stdout unless -o or output.path is set. The output file is
created before anything is translated; failing to create it is the only
hard error. Unsupported operators and parse errors are reported but the
modules are still written.

Examples:
  mirror compile Models.cs                    # write to stdout
  mirror compile Models.cs -o models.js       # write to a file
  mirror compile Models.cs --marker ClientModel
  mirror compile Models.cs --unfiltered --report build/report.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := Config()
		unfiltered, _ := cmd.Flags().GetBool("unfiltered")
		opts := compileOptions{
			Input:      args[0],
			Output:     stringFlag(cmd, "output", c.Output.Path),
			Marker:     stringFlag(cmd, "marker", ""),
			Report:     stringFlag(cmd, "report", c.Output.Report),
			Unfiltered: unfiltered || c.Mirror.Unfiltered,
		}
		_, err := runCompile(c, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	},
}

// EmitCmd translates every class of a file, marked or not
var EmitCmd = &cobra.Command{
	Use:   "emit <input|->",
	Short: "Translate every class, ignoring the marker",
	Long: `Translate every class in the input regardless of attributes.
Use - to read the source from stdin.

Examples:
  mirror emit Scratch.cs
  cat Scratch.cs | mirror emit -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := compileOptions{
			Input:      args[0],
			Output:     stringFlag(cmd, "output", ""),
			Unfiltered: true,
		}
		_, err := runCompile(Config(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	},
}

func init() {
	CompileCmd.Flags().StringP("output", "o", "", "Output file (default: stdout or output.path)")
	CompileCmd.Flags().String("marker", "", "Attribute that selects classes (default: mirror.marker)")
	CompileCmd.Flags().Bool("unfiltered", false, "Translate every class, ignoring the marker")
	CompileCmd.Flags().String("report", "", "Write a JSON run report to this path")

	EmitCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

type compileOptions struct {
	// Input is a file path, or - for stdin
	Input      string
	Output     string
	Marker     string
	Report     string
	Unfiltered bool
}

func runCompile(c *am.Config, opts compileOptions, stdin io.Reader, stdout, stderr io.Writer) (*mirror.Report, error) {
	compiler := newCompiler(c, opts.Marker)

	out, err := createOutput(opts.Output, stdout)
	if err != nil {
		return nil, err
	}

	var report *mirror.Report
	if opts.Input == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			out.Close()
			return nil, errors.Wrap(readErr, "failed to read stdin")
		}
		if opts.Unfiltered {
			report, err = compiler.EmitJS(out, string(data))
		} else {
			report, err = compiler.Compile(out, string(data))
		}
	} else if opts.Unfiltered {
		report, err = compiler.EmitJSFile(out, opts.Input)
	} else {
		report, err = compiler.CompileFile(out, opts.Input)
	}

	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return report, err
	}

	printParseErrors(stderr, report)
	if opts.Report != "" {
		if err := report.WriteFile(opts.Report); err != nil {
			return report, err
		}
	}

	if opts.Output != "" {
		pterm.Success.WithWriter(stderr).Printfln("Wrote %d module(s) to %s", len(report.Classes), opts.Output)
	}
	if n := len(report.Diagnostics); n > 0 {
		pterm.Warning.WithWriter(stderr).Printfln("%d unsupported operator(s) emitted as written", n)
	}
	return report, nil
}

// printSummary is used by commands that report on a finished run
func printSummary(w io.Writer, report *mirror.Report) {
	fmt.Fprintf(w, "%d class(es), %d diagnostic(s), %d parse error(s) in %dms\n",
		len(report.Classes), len(report.Diagnostics), len(report.ParseErrors), report.DurationMS)
}
