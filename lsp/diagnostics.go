package lsp

import (
	"io"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/mirror"
	"github.com/teranos/mirror/syntax"
)

// Diagnostic codes
const (
	CodeUnsupportedOperator = "unsupported-operator"
)

// Diagnose compiles text and converts parse errors and emitter findings
// to LSP diagnostics. The result is never nil.
func (h *Handler) Diagnose(text string) []protocol.Diagnostic {
	var report *mirror.Report
	var err error
	if h.opts.Unfiltered {
		report, err = h.compiler.EmitJS(io.Discard, text)
	} else {
		report, err = h.compiler.Compile(io.Discard, text)
	}

	diagnostics := []protocol.Diagnostic{}
	if err != nil || report == nil {
		h.log.Warnw("Diagnose failed", logger.FieldError, err)
		return diagnostics
	}

	for _, pe := range report.ParseErrors {
		diagnostics = append(diagnostics, FromParseError(pe))
	}
	for _, d := range report.Diagnostics {
		diagnostics = append(diagnostics, FromEmitterDiagnostic(d))
	}
	return diagnostics
}

// FromParseError converts a front-end error
func FromParseError(pe *syntax.ParseError) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	switch pe.Severity {
	case syntax.SeverityWarning:
		severity = protocol.DiagnosticSeverityWarning
	case syntax.SeverityHint:
		severity = protocol.DiagnosticSeverityHint
	}

	message := pe.Message
	for i, s := range pe.Suggestions {
		if i == 0 {
			message += "\nSuggestions: "
		} else {
			message += ", "
		}
		message += s
	}

	source := ServerName
	return protocol.Diagnostic{
		Range:    nameRange(pe.Pos, pe.Token),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: string(pe.Kind)},
		Source:   &source,
		Message:  message,
	}
}

// FromEmitterDiagnostic converts an unsupported-operator finding
func FromEmitterDiagnostic(d mirror.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	source := ServerName
	return protocol.Diagnostic{
		Range:    nameRange(d.Position, d.Operator),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: CodeUnsupportedOperator},
		Source:   &source,
		Message:  d.Message + " (emitted as written in " + d.Class + ")",
	}
}

// nameRange spans text starting at a 1-based source position. Empty text
// spans one character; an invalid position maps to the file start.
func nameRange(pos syntax.Position, text string) protocol.Range {
	line, col := pos.Line-1, pos.Column-1
	if !pos.IsValid() {
		line, col = 0, 0
	}
	if col < 0 {
		col = 0
	}

	width := utf8.RuneCountInString(text)
	if width == 0 {
		width = 1
	}

	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col + width)},
	}
}
