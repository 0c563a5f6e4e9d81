package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/watch"
)

// WatchCmd recompiles whenever the input changes
var WatchCmd = &cobra.Command{
	Use:   "watch <input>",
	Short: "Recompile whenever the input changes",
	Long: `Compile once, then recompile each time the input file is saved.

Saves are debounced (watch.debounce_ms) and rebuilds are rate limited
(watch.max_runs_per_minute). After each successful build the --exec hook
runs with MIRROR_INPUT and MIRROR_OUTPUT set.

Examples:
  mirror watch Models.cs -o web/models.js
  mirror watch Models.cs -o web/models.js --exec "npm run lint -- web/models.js"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := Config()
		unfiltered, _ := cmd.Flags().GetBool("unfiltered")
		debounce, _ := cmd.Flags().GetInt("debounce")
		if !cmd.Flags().Changed("debounce") {
			debounce = c.Watch.DebounceMS
		}

		opts := compileOptions{
			Input:      args[0],
			Output:     stringFlag(cmd, "output", c.Output.Path),
			Marker:     stringFlag(cmd, "marker", ""),
			Report:     c.Output.Report,
			Unfiltered: unfiltered || c.Mirror.Unfiltered,
		}
		wopts := watch.Options{
			Debounce:         time.Duration(debounce) * time.Millisecond,
			MaxRunsPerMinute: c.Watch.MaxRunsPerMinute,
			Exec:             stringFlag(cmd, "exec", c.Watch.Exec),
			Stdout:           cmd.OutOrStdout(),
			Stderr:           cmd.ErrOrStderr(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, c, opts, wopts, cmd.ErrOrStderr())
	},
}

func init() {
	WatchCmd.Flags().StringP("output", "o", "", "Output file (default: output.path)")
	WatchCmd.Flags().String("marker", "", "Attribute that selects classes (default: mirror.marker)")
	WatchCmd.Flags().Bool("unfiltered", false, "Translate every class, ignoring the marker")
	WatchCmd.Flags().Int("debounce", am.DefaultDebounceMS, "Quiet period in milliseconds before rebuilding")
	WatchCmd.Flags().String("exec", "", "Shell command to run after each successful build")
}

func runWatch(ctx context.Context, c *am.Config, opts compileOptions, wopts watch.Options, stderr io.Writer) error {
	if opts.Output == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("watch needs an output file"),
			"pass -o or set output.path in mirror.toml",
		)
	}

	wopts.Paths = []string{opts.Input}
	wopts.Env = append(wopts.Env, "MIRROR_INPUT="+opts.Input, "MIRROR_OUTPUT="+opts.Output)

	build := func(ctx context.Context) error {
		report, err := runCompile(c, opts, nil, io.Discard, stderr)
		if err != nil {
			return err
		}
		printSummary(stderr, report)
		return nil
	}

	w, err := watch.New(build, wopts, logger.Named("watch"))
	if err != nil {
		return err
	}
	logger.Infow("Watching", logger.FieldFile, opts.Input)
	return w.Run(ctx)
}
