package batch

import (
	"bufio"
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/mirror"
)

// Runner compiles manifest units one after another
type Runner struct {
	marker   string
	defaults *mirror.DefaultValues
	stdout   io.Writer
	log      *zap.SugaredLogger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithMarker sets the marker used by units that do not name one
func WithMarker(marker string) RunnerOption {
	return func(r *Runner) { r.marker = marker }
}

// WithDefaults sets the default-value mapper shared by all units
func WithDefaults(d *mirror.DefaultValues) RunnerOption {
	return func(r *Runner) { r.defaults = d }
}

// WithStdout sets the destination for units without an output path
func WithStdout(w io.Writer) RunnerOption {
	return func(r *Runner) { r.stdout = w }
}

// WithLogger sets the runner's logger
func WithLogger(l *zap.SugaredLogger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		defaults: mirror.NewDefaultValues(),
		stdout:   os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("batch")
	}
	return r
}

// Result is the outcome of one unit
type Result struct {
	Unit   Unit
	Report *mirror.Report
	Err    error
}

// Run compiles every unit in order. A failing unit does not stop the
// others; the returned error summarises how many failed. Cancelling ctx
// stops before the next unit starts.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]Result, error) {
	results := make([]Result, 0, len(m.Units))
	failed := 0

	for _, unit := range m.Units {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "batch cancelled")
		}

		report, err := r.runUnit(m, unit)
		if err != nil {
			failed++
			r.log.Errorw("Unit failed", logger.FieldUnit, unit.Name, logger.FieldError, err)
		}
		results = append(results, Result{Unit: unit, Report: report, Err: err})
	}

	if failed > 0 {
		return results, errors.Newf("%d of %d units failed", failed, len(m.Units))
	}
	return results, nil
}

func (r *Runner) runUnit(m *Manifest, unit Unit) (*mirror.Report, error) {
	marker := unit.Marker
	if marker == "" {
		marker = r.marker
	}
	opts := []mirror.Option{
		mirror.WithDefaults(r.defaults),
		mirror.WithLogger(r.log.With(logger.FieldUnit, unit.Name)),
	}
	if marker != "" {
		opts = append(opts, mirror.WithMarker(marker))
	}
	compiler := mirror.NewCompiler(opts...)

	// the destination is created before any translation output
	dst := r.stdout
	var file *os.File
	if unit.Output != "" {
		path := m.Resolve(unit.Output)
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.WrapOutputCreate(err, path)
		}
		file = f
		dst = f
	}

	w := bufio.NewWriter(dst)
	input := m.Resolve(unit.Input)

	var report *mirror.Report
	var err error
	if unit.Unfiltered {
		report, err = compiler.EmitJSFile(w, input)
	} else {
		report, err = compiler.CompileFile(w, input)
	}

	if flushErr := w.Flush(); err == nil && flushErr != nil {
		err = errors.Wrap(flushErr, "failed to flush output")
	}
	if file != nil {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "failed to close output")
		}
	}
	if err != nil {
		return report, err
	}

	if unit.Report != "" {
		if err := report.WriteFile(m.Resolve(unit.Report)); err != nil {
			return report, err
		}
	}

	r.log.Infow("Unit compiled",
		logger.FieldUnit, unit.Name,
		logger.FieldOutput, unit.Output,
		logger.FieldCount, len(report.Classes),
	)
	return report, nil
}
