package mirror

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/syntax"
)

// Compiler drives parsing, class selection and emission for whole files.
// It holds configuration only; every run allocates its own emitters.
type Compiler struct {
	marker   string
	defaults *DefaultValues
	log      *zap.SugaredLogger
}

// Option configures a Compiler
type Option func(*Compiler)

// WithMarker sets the attribute name that selects classes in filtered mode
func WithMarker(marker string) Option {
	return func(c *Compiler) {
		c.marker = marker
	}
}

// WithDefaults replaces the default-value mapper
func WithDefaults(d *DefaultValues) Option {
	return func(c *Compiler) {
		c.defaults = d
	}
}

// WithLogger sets the logger used for run summaries and diagnostics
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Compiler) {
		c.log = l
	}
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		marker:   syntax.DefaultMarker,
		defaults: NewDefaultValues(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("mirror")
	}
	return c
}

// Marker returns the attribute name used in filtered mode
func (c *Compiler) Marker() string {
	return c.marker
}

// CompileFile reads path and writes a module for every marked class to w.
func (c *Compiler) CompileFile(w io.Writer, path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "source file %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return c.run(w, string(content), path, ModeFiltered)
}

// Compile writes a module for every marked class in content to w.
func (c *Compiler) Compile(w io.Writer, content string) (*Report, error) {
	return c.run(w, content, "", ModeFiltered)
}

// EmitJS writes a module for every class in content, marked or not.
func (c *Compiler) EmitJS(w io.Writer, content string) (*Report, error) {
	return c.run(w, content, "", ModeUnfiltered)
}

// EmitJSFile is EmitJS for a file on disk.
func (c *Compiler) EmitJSFile(w io.Writer, path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "source file %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return c.run(w, string(content), path, ModeUnfiltered)
}

// EmitJSString translates every class in content with default settings and
// returns the generated text.
func EmitJSString(content string) string {
	var out strings.Builder
	// writes to a strings.Builder cannot fail
	_, _ = NewCompiler(WithLogger(zap.NewNop().Sugar())).EmitJS(&out, content)
	return out.String()
}

// EmitClass writes the module for one parsed class, ignoring its marker.
func (c *Compiler) EmitClass(w io.Writer, class *syntax.ClassDecl) ([]Diagnostic, error) {
	em := newEmitter(class, c.defaults, c.log.Named("emitter"))
	if err := em.Emit(w); err != nil {
		return nil, errors.Wrapf(err, "failed to write module for %s", class.Name)
	}
	return em.Diagnostics(), nil
}

func (c *Compiler) run(w io.Writer, content, path string, mode Mode) (*Report, error) {
	report := newReport(path, mode, c.marker)

	unit, parseErrs := syntax.Parse(content, syntax.Options{Marker: c.marker})
	report.ParseErrors = parseErrs
	for _, pe := range parseErrs {
		c.log.Warnw("Parse error",
			logger.FieldFile, path,
			logger.FieldLine, pe.Pos.Line,
			logger.FieldColumn, pe.Pos.Column,
			logger.FieldError, pe.Message,
		)
	}

	var classes []*syntax.ClassDecl
	if mode == ModeUnfiltered {
		classes = AllClasses(unit)
	} else {
		classes = SelectClasses(unit)
	}

	for _, class := range classes {
		diags, err := c.EmitClass(w, class)
		if err != nil {
			report.finish()
			return report, err
		}
		report.Classes = append(report.Classes, class.Name)
		report.Diagnostics = append(report.Diagnostics, diags...)
	}

	report.finish()
	c.log.Infow("Compiled",
		logger.FieldRunID, report.RunID,
		logger.FieldFile, path,
		logger.FieldMode, string(mode),
		logger.FieldCount, len(report.Classes),
		logger.FieldDurationMS, report.DurationMS,
	)
	return report, nil
}
