package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
)

const (
	metricFilesTotal       = "modcheck.files.total"
	metricDiagnosticsTotal = "modcheck.diagnostics.total"
	metricFileDuration     = "modcheck.file.duration.seconds"
	metricBytesTotal       = "modcheck.parsed.bytes.total"

	attrStatus     = "status"
	attrSourceType = "source_type"
	attrRule       = "rule"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 100µs to 5s; single-file parses rarely take longer.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// LintMetrics holds the OTel instruments for per-file lint results.
// It implements lint.Recorder.
type LintMetrics struct {
	filesTotal       metric.Int64Counter
	diagnosticsTotal metric.Int64Counter
	fileDuration     metric.Float64Histogram
	bytesTotal       metric.Int64Counter
}

// NewLintMetrics creates lint metric instruments from the given meter.
func NewLintMetrics(mt metric.Meter) (*LintMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Total number of linted files"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	diags, err := mt.Int64Counter(metricDiagnosticsTotal,
		metric.WithDescription("Total number of reported diagnostics"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnosticsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file parse and lint duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	bytesTotal, err := mt.Int64Counter(metricBytesTotal,
		metric.WithDescription("Total source bytes parsed"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBytesTotal, err)
	}

	return &LintMetrics{
		filesTotal:       files,
		diagnosticsTotal: diags,
		fileDuration:     duration,
		bytesTotal:       bytesTotal,
	}, nil
}

// RecordFile records one linted file.
func (lm *LintMetrics) RecordFile(ctx context.Context, result lint.FileResult, duration time.Duration) {
	status := statusOK
	if result.Err != nil {
		status = statusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrStatus, status),
		attribute.String(attrSourceType, string(result.SourceType)),
	)

	lm.filesTotal.Add(ctx, 1, attrs)
	lm.fileDuration.Record(ctx, duration.Seconds(), attrs)
	lm.bytesTotal.Add(ctx, int64(result.Bytes))

	for _, diag := range result.Diagnostics {
		lm.diagnosticsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, diag.RuleID)))
	}
}
