package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/batch"
	"github.com/teranos/mirror/mirror"
	"github.com/teranos/mirror/version"
)

// BatchCmd compiles every unit listed in a manifest
var BatchCmd = &cobra.Command{
	Use:   "batch [manifest]",
	Short: "Compile every unit listed in a manifest",
	Long: `Compile the units of a batch manifest (default: ` + batch.DefaultManifestName + `).

Units run in order. A failing unit is reported and the rest still run; the
command exits non-zero if any unit failed. An optional requires constraint
in the manifest is checked against this binary's version first.

Example manifest:

  requires = ">= 1.0"

  [[unit]]
  input  = "Models.cs"
  output = "web/models.js"

  [[unit]]
  name       = "scratch"
  input      = "Scratch.cs"
  unfiltered = true`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := batch.DefaultManifestName
		if len(args) == 1 {
			path = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runBatch(ctx, Config(), path, version.Get(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runBatch(ctx context.Context, c *am.Config, path string, info version.Info, stdout, stderr io.Writer) error {
	m, err := batch.LoadManifest(path)
	if err != nil {
		return err
	}
	if err := m.CheckRequires(info); err != nil {
		return err
	}

	runner := batch.NewRunner(
		batch.WithMarker(c.GetMarker()),
		batch.WithDefaults(mirror.NewDefaultValues().RegisterAll(c.Mirror.DefaultsMap())),
		batch.WithStdout(stdout),
	)
	results, runErr := runner.Run(ctx, m)

	data := [][]string{{"Unit", "Output", "Classes", "Diagnostics", "Status"}}
	for _, r := range results {
		out := r.Unit.Output
		if out == "" {
			out = "stdout"
		}
		classes, diags := "-", "-"
		if r.Report != nil {
			classes = fmt.Sprint(len(r.Report.Classes))
			diags = fmt.Sprint(len(r.Report.Diagnostics))
		}
		status := pterm.Green("ok")
		if r.Err != nil {
			status = pterm.Red(r.Err.Error())
		}
		data = append(data, []string{r.Unit.Name, out, classes, diags, status})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(stderr).Render(); err != nil {
		return err
	}
	return runErr
}
