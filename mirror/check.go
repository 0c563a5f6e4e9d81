package mirror

import (
	"fmt"
	"os"
	"strings"

	"github.com/teranos/mirror/errors"
)

// maxReportedDiffs bounds the number of differing lines kept in a CheckResult
const maxReportedDiffs = 5

// CheckResult holds the result of comparing generated output with a file
type CheckResult struct {
	Path     string
	UpToDate bool
	// Missing is set when the existing file does not exist
	Missing     bool
	Differences []LineDiff
}

// LineDiff is one differing line; Line is 1-based
type LineDiff struct {
	Line      int
	Existing  string
	Generated string
}

// Check compares freshly generated output with the file at existingPath.
// Line endings are normalised so a CRLF checkout is not reported as stale.
func Check(existingPath, generated string) (*CheckResult, error) {
	result := &CheckResult{Path: existingPath}

	content, err := os.ReadFile(existingPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Missing = true
			return result, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", existingPath)
	}

	existingLines := splitLines(string(content))
	generatedLines := splitLines(generated)

	n := len(existingLines)
	if len(generatedLines) > n {
		n = len(generatedLines)
	}
	for i := 0; i < n && len(result.Differences) < maxReportedDiffs; i++ {
		existing, generatedLine := lineAt(existingLines, i), lineAt(generatedLines, i)
		if existing != generatedLine || i >= len(existingLines) || i >= len(generatedLines) {
			result.Differences = append(result.Differences, LineDiff{
				Line:      i + 1,
				Existing:  existing,
				Generated: generatedLine,
			})
		}
	}

	result.UpToDate = len(result.Differences) == 0
	return result, nil
}

// Err returns an ErrOutOfDate error describing the result, or nil when up to date
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	if r.Missing {
		return errors.Wrapf(errors.ErrOutOfDate, "%s does not exist", r.Path)
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%s differs from its source", r.Path),
		"run 'mirror compile' to regenerate it",
	)
}

// Summary renders the differences one per line
func (r *CheckResult) Summary() string {
	if r.UpToDate {
		return fmt.Sprintf("%s is up to date", r.Path)
	}
	if r.Missing {
		return fmt.Sprintf("%s does not exist", r.Path)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s is out of date", r.Path)
	for _, d := range r.Differences {
		fmt.Fprintf(&b, "\n  line %d:\n    - %s\n    + %s", d.Line, d.Existing, d.Generated)
	}
	return b.String()
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
