// Package report renders lint results for terminals and machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
)

// Output formats.
const (
	FormatText    = "text"
	FormatCompact = "compact"
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Options control rendering.
type Options struct {
	NoColor bool
	// Quiet drops the summary line of human-readable formats.
	Quiet bool
}

// Summary aggregates a run.
type Summary struct {
	Files    int           `json:"files"    yaml:"files"`
	Failed   int           `json:"failed"   yaml:"failed"`
	Problems int           `json:"problems" yaml:"problems"`
	Errors   int           `json:"errors"   yaml:"errors"`
	Warnings int           `json:"warnings" yaml:"warnings"`
	Bytes    int64         `json:"bytes"    yaml:"bytes"`
	Elapsed  time.Duration `json:"elapsed_ns" yaml:"elapsed_ns"`
}

// Summarize counts files, failures and diagnostics.
func Summarize(results []lint.FileResult, elapsed time.Duration) Summary {
	summary := Summary{Files: len(results), Elapsed: elapsed}

	for _, result := range results {
		if result.Err != nil {
			summary.Failed++
		}

		summary.Problems += len(result.Diagnostics)

		for _, diag := range result.Diagnostics {
			if diag.Severity == lint.SeverityWarning {
				summary.Warnings++
			} else {
				summary.Errors++
			}
		}
		summary.Bytes += int64(result.Bytes)
	}

	return summary
}

// HasErrors reports whether the run should fail: any error-severity
// diagnostic or any file that could not be linted.
func (summary Summary) HasErrors() bool {
	return summary.Errors > 0 || summary.Failed > 0
}

// Render writes results in the given format.
func Render(writer io.Writer, format string, results []lint.FileResult, summary Summary, opts Options) error {
	var err error

	switch format {
	case FormatText, "":
		err = renderText(writer, results, summary, opts)
	case FormatCompact:
		err = renderCompact(writer, results)
	case FormatTable:
		err = renderTable(writer, results, summary, opts)
	case FormatJSON:
		err = renderJSON(writer, results, summary)
	case FormatYAML:
		err = renderYAML(writer, results, summary)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	return nil
}
