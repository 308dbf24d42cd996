package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetricsFile writes the gathered metrics in the Prometheus text format,
// atomically, for the node_exporter textfile collector.
func WriteMetricsFile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
