package mirror

import (
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/syntax"
)

// Mode selects whether the marker filter applies.
type Mode string

const (
	ModeFiltered   Mode = "filtered"
	ModeUnfiltered Mode = "unfiltered"
)

// Report holds the outcome of one compile run.
type Report struct {
	// RunID identifies the run in logs and report files
	RunID string `json:"run_id"`

	// Source is the input path, empty for in-memory content
	Source string `json:"source,omitempty"`

	Mode   Mode   `json:"mode"`
	Marker string `json:"marker,omitempty"`

	// Classes lists translated class names in output order
	Classes []string `json:"classes"`

	// Diagnostics are advisory emitter findings (unsupported operators)
	Diagnostics []Diagnostic `json:"diagnostics"`

	// ParseErrors are recoverable front-end errors; output was still produced
	ParseErrors []*syntax.ParseError `json:"parse_errors"`

	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

func newReport(source string, mode Mode, marker string) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		Source:      source,
		Mode:        mode,
		Classes:     []string{},
		Diagnostics: []Diagnostic{},
		ParseErrors: []*syntax.ParseError{},
		StartedAt:   time.Now(),
	}
	if mode == ModeFiltered {
		r.Marker = marker
	}
	return r
}

func (r *Report) finish() {
	r.DurationMS = time.Since(r.StartedAt).Milliseconds()
	if r.ParseErrors == nil {
		r.ParseErrors = []*syntax.ParseError{}
	}
}

// HasParseErrors reports whether the front end recorded any errors
func (r *Report) HasParseErrors() bool {
	return len(r.ParseErrors) > 0
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

// WriteFile writes the report to path
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapOutputCreate(err, path)
	}
	defer f.Close()
	return r.WriteJSON(f)
}

// ReadReport loads a report written by WriteFile
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read report %s", path)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "failed to parse report %s", path)
	}
	return &r, nil
}
