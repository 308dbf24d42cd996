package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
)

func TestRequestMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewRequestMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	done := metrics.TrackInflight(ctx, "mcp.modcheck_check")
	metrics.RecordRequest(ctx, "mcp.modcheck_check", observability.StatusOK, time.Millisecond)
	metrics.RecordRequest(ctx, "mcp.modcheck_check", observability.StatusError, time.Millisecond)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "modcheck.requests.total")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "modcheck.errors.total")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "modcheck.inflight.requests")))

	done()

	rm = collectMetrics(t, reader)
	assert.Equal(t, int64(0), sumInt64(t, findMetric(rm, "modcheck.inflight.requests")))
}
