package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
)

type palette struct {
	file    *color.Color
	err     *color.Color
	warning *color.Color
	dim     *color.Color
	ok      *color.Color
}

func newPalette(noColor bool) palette {
	pal := palette{
		file:    color.New(color.Underline),
		err:     color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		dim:     color.New(color.Faint),
		ok:      color.New(color.FgGreen),
	}

	if noColor {
		for _, c := range []*color.Color{pal.file, pal.err, pal.warning, pal.dim, pal.ok} {
			c.DisableColor()
		}
	}

	return pal
}

func (pal palette) severity(sev lint.Severity) string {
	if sev == lint.SeverityWarning {
		return pal.warning.Sprint(string(sev))
	}

	return pal.err.Sprint(string(sev))
}

// renderText groups diagnostics by file, one indented line per problem.
func renderText(writer io.Writer, results []lint.FileResult, summary Summary, opts Options) error {
	pal := newPalette(opts.NoColor)

	var out strings.Builder

	for _, result := range results {
		if result.Err == nil && len(result.Diagnostics) == 0 {
			continue
		}

		fmt.Fprintln(&out, pal.file.Sprint(result.Filename))

		if result.Err != nil {
			fmt.Fprintf(&out, "  %s  %s\n", pal.err.Sprint("error"), result.Err)
		}

		for _, diag := range result.Diagnostics {
			fmt.Fprintf(&out, "  %s  %s  %s  %s\n",
				pal.dim.Sprintf("%d:%d", diag.Line, diag.Column),
				pal.severity(diag.Severity),
				diag.Message,
				pal.dim.Sprint(diag.RuleID),
			)
		}

		out.WriteString("\n")
	}

	if !opts.Quiet {
		out.WriteString(summaryLine(pal, summary))
		out.WriteString("\n")
	}

	_, err := io.WriteString(writer, out.String())

	return err
}

func summaryLine(pal palette, summary Summary) string {
	stats := fmt.Sprintf("%s checked, %s parsed in %s",
		english.Plural(summary.Files, "file", ""),
		humanize.Bytes(uint64(max(summary.Bytes, 0))),
		summary.Elapsed.Round(time.Millisecond),
	)

	if summary.Problems == 0 && summary.Failed == 0 {
		return pal.ok.Sprintf("✔ no problems (%s)", stats)
	}

	parts := []string{english.Plural(summary.Problems, "problem", "")}
	if summary.Warnings > 0 {
		parts[0] += fmt.Sprintf(" (%s, %s)",
			english.Plural(summary.Errors, "error", ""),
			english.Plural(summary.Warnings, "warning", ""))
	}

	if summary.Failed > 0 {
		parts = append(parts, english.Plural(summary.Failed, "unreadable file", ""))
	}

	marker := pal.err
	if !summary.HasErrors() {
		marker = pal.warning
	}

	return marker.Sprintf("✖ %s (%s)", strings.Join(parts, ", "), stats)
}

// renderCompact prints one grep-friendly line per problem.
func renderCompact(writer io.Writer, results []lint.FileResult) error {
	var out strings.Builder

	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(&out, "%s: error: %s\n", result.Filename, result.Err)
		}

		for _, diag := range result.Diagnostics {
			fmt.Fprintf(&out, "%s:%d:%d: %s: %s [%s]\n",
				diag.Filename, diag.Line, diag.Column, diag.Severity, diag.Message, diag.RuleID)
		}
	}

	_, err := io.WriteString(writer, out.String())

	return err
}

func renderTable(writer io.Writer, results []lint.FileResult, summary Summary, opts Options) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Message", "Rule"})

	for _, result := range results {
		if result.Err != nil {
			tbl.AppendRow(table.Row{result.Filename, "", "", "error", result.Err.Error(), ""})
		}

		for _, diag := range result.Diagnostics {
			tbl.AppendRow(table.Row{diag.Filename, diag.Line, diag.Column, string(diag.Severity), diag.Message, diag.RuleID})
		}
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s", english.Plural(summary.Problems, "problem", ""))})

	if _, err := io.WriteString(writer, tbl.Render()+"\n"); err != nil {
		return err
	}

	if opts.Quiet {
		return nil
	}

	_, err := io.WriteString(writer, summaryLine(newPalette(opts.NoColor), summary)+"\n")

	return err
}
