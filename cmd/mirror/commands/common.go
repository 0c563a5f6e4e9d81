// Package commands implements the mirror subcommands.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/mirror"
	"github.com/teranos/mirror/syntax"
)

// cfg is set by Setup before any command runs
var cfg *am.Config

// ExitError ends the process with Code. The message has already been
// printed, so main must not print it again.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Setup loads configuration and initializes the global logger. configPath
// overrides the config cascade when set.
func Setup(configPath string, verbosity int, jsonLogs bool) error {
	var err error
	if configPath != "" {
		cfg, err = am.LoadFromFile(configPath)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run 'mirror am show --sources' to see where each value comes from",
		)
	}

	logger.SetTheme(cfg.GetLogTheme())
	if err := logger.Initialize(jsonLogs || cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	logger.Debugw("Configuration loaded",
		"verbosity", logger.LevelName(verbosity),
		"marker", cfg.GetMarker(),
		"config", configPath,
	)
	if logger.ShouldLogTrace(verbosity) && configPath == "" {
		for _, s := range am.GetConfigIntrospection().Settings {
			logger.Debugw("Setting", "key", s.Key, "value", s.Value, "source", s.Source)
		}
	}
	return nil
}

// Config returns the loaded configuration, or defaults before Setup runs
func Config() *am.Config {
	if cfg == nil {
		return am.DefaultConfig()
	}
	return cfg
}

// newCompiler builds a compiler from c; a non-empty marker wins over c's
func newCompiler(c *am.Config, marker string) *mirror.Compiler {
	if marker == "" {
		marker = c.GetMarker()
	}
	defaults := mirror.NewDefaultValues().RegisterAll(c.Mirror.DefaultsMap())
	return mirror.NewCompiler(mirror.WithMarker(marker), mirror.WithDefaults(defaults))
}

// output is a buffered destination that is flushed once after the last class
type output struct {
	*bufio.Writer
	file *os.File
}

// createOutput opens path for writing, or wraps stdout when path is empty.
// The file is created before anything is translated.
func createOutput(path string, stdout io.Writer) (*output, error) {
	if path == "" {
		return &output{Writer: bufio.NewWriter(stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WrapOutputCreate(err, path)
	}
	return &output{Writer: bufio.NewWriter(f), file: f}, nil
}

func (o *output) Close() error {
	if err := o.Flush(); err != nil {
		if o.file != nil {
			o.file.Close()
		}
		return errors.Wrap(err, "failed to flush output")
	}
	if o.file == nil {
		return nil
	}
	return errors.Wrap(o.file.Close(), "failed to close output")
}

// printParseErrors lists recoverable parse errors; output was still produced
func printParseErrors(w io.Writer, report *mirror.Report) {
	for _, pe := range report.ParseErrors {
		fmt.Fprintln(w, pe.FormatError(syntax.ErrorContextTerminal))
	}
}

// stringFlag returns the flag value when it was set, fallback otherwise
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}
