package lint

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Severity of a diagnostic.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrInvalidSeverity is returned for unknown severity names.
var ErrInvalidSeverity = errors.New("invalid severity")

// ParseSeverity accepts "error", "warning" and its short form "warn".
// The empty string means SeverityError.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(SeverityError):
		return SeverityError, nil
	case string(SeverityWarning), "warn":
		return SeverityWarning, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, value)
	}
}

// Diagnostic is one reported problem. Lines and columns are 1-based.
type Diagnostic struct {
	RuleID    string   `json:"rule_id"             yaml:"rule_id"`
	MessageID string   `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	Message   string   `json:"message"             yaml:"message"`
	Severity  Severity `json:"severity"            yaml:"severity"`
	Filename  string   `json:"filename"            yaml:"filename"`
	Line      int      `json:"line"                yaml:"line"`
	Column    int      `json:"column"              yaml:"column"`
	EndLine   int      `json:"end_line,omitempty"   yaml:"end_line,omitempty"`
	EndColumn int      `json:"end_column,omitempty" yaml:"end_column,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^\s{}]+)\s*\}\}`)

// Interpolate replaces {{ name }} placeholders with values from data. Unknown
// placeholders are left as written.
func Interpolate(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := data[name]; ok {
			return value
		}

		return match
	})
}

// SortDiagnostics orders diagnostics by file, position and rule.
// Reports anchored at the same node keep their reporting order.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(left, right Diagnostic) int {
		return cmp.Or(
			cmp.Compare(left.Filename, right.Filename),
			cmp.Compare(left.Line, right.Line),
			cmp.Compare(left.Column, right.Column),
			cmp.Compare(left.RuleID, right.RuleID),
		)
	})
}
