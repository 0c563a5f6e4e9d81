package syntax

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// ErrorContext indicates the environment where parse errors will be displayed
type ErrorContext string

const (
	// ErrorContextTerminal renders with ANSI colors
	ErrorContextTerminal ErrorContext = "terminal"
	// ErrorContextPlain renders without ANSI codes (logs, reports, LSP)
	ErrorContextPlain ErrorContext = "plain"
)

// ErrorSeverity indicates the severity level of a parse error
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityHint    ErrorSeverity = "hint"
)

// ErrorKind categorizes parse errors for programmatic handling
type ErrorKind string

const (
	ErrorKindLexical ErrorKind = "lexical" // Unterminated literal, stray character
	ErrorKindSyntax  ErrorKind = "syntax"  // Token out of place
)

// ParseError is a recoverable front-end error. The parser keeps going after
// recording one, so a single file can report several.
type ParseError struct {
	Kind        ErrorKind     `json:"kind"`
	Severity    ErrorSeverity `json:"severity"`
	Message     string        `json:"message"`
	Pos         Position      `json:"position"`
	Token       string        `json:"token,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// Error implements error with the plain format so errors stay log friendly
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// FormatError generates a context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminalError()
	}
	return e.formatPlainError()
}

func (e *ParseError) formatPlainError() string {
	msg := e.Message
	if e.Pos.IsValid() {
		msg = fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	if e.Token != "" {
		msg += fmt.Sprintf(" (near %q)", e.Token)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ParseError) formatTerminalError() string {
	var baseMsg string
	switch e.Severity {
	case SeverityError:
		baseMsg = pterm.Red(e.Message)
	case SeverityWarning:
		baseMsg = pterm.Yellow(e.Message)
	case SeverityHint:
		baseMsg = pterm.LightCyan(e.Message)
	default:
		baseMsg = e.Message
	}

	var b strings.Builder
	b.WriteString(baseMsg)
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, "\n  %s %s", pterm.Yellow("Position:"), e.Pos)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, "\n  %s '%s'", pterm.Yellow("Token:"), e.Token)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\n%s", pterm.Green("Suggestions:"))
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", s)
		}
	}
	return b.String()
}

// IsWarning returns true if this error has warning severity specifically
func (e *ParseError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// NewParseError creates an error-severity ParseError
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Kind:     kind,
		Severity: SeverityError,
		Message:  message,
	}
}

// WithPosition sets the source position where the error occurred
func (e *ParseError) WithPosition(pos Position) *ParseError {
	e.Pos = pos
	return e
}

// WithToken records the offending token text
func (e *ParseError) WithToken(tok Token) *ParseError {
	if tok.Type != EOF {
		e.Token = tok.Literal
	}
	return e
}

func (e *ParseError) WithSeverity(sev ErrorSeverity) *ParseError {
	e.Severity = sev
	return e
}

func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}
