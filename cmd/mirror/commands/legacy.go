package commands

import (
	"fmt"
	"io"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

// LegacyUsage describes the positional form accepted by the root command
const LegacyUsage = "mirror <inputPath> [outputPath]"

// LegacyOutputPath picks the output path from positional arguments. The
// path is only taken from the second position when more than two arguments
// are given; with exactly two, output still goes to stdout.
func LegacyOutputPath(args []string) string {
	if len(args) > 2 {
		return args[1]
	}
	return ""
}

// RunLegacy implements the positional form: translate the marked classes
// of args[0] to stdout or to LegacyOutputPath(args).
func RunLegacy(c *am.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.NewInvalidRequestError("usage: %s", LegacyUsage)
	}
	if len(args) == 2 {
		logger.Warnw("Second argument ignored; output goes to stdout unless more than two arguments are given",
			logger.FieldFile, args[1])
	}

	_, err := runCompile(c, compileOptions{
		Input:  args[0],
		Output: LegacyOutputPath(args),
	}, nil, stdout, stderr)

	if errors.IsOutputCreateError(err) {
		fmt.Fprintln(stdout, "Failed to create output file.")
		return &ExitError{Code: 1}
	}
	return err
}
