package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Discovery and persistence Prometheus metrics.
var (
	DiscoveredFieldsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "filtering",
			Name:      "discovered_fields_total",
			Help:      "Total number of filter values produced by discovery",
		},
	)

	DiscoverySkipsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filtering",
			Name:      "discovery_skips_total",
			Help:      "Total number of marked fields skipped during discovery",
		},
		[]string{"reason"},
	)

	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filtering",
			Name:      "store_operations_total",
			Help:      "Total number of filter store operations",
		},
		[]string{"op", "status"}, // status: "ok" / "not_found" / "error"
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "filtering",
			Name:      "store_operation_duration_seconds",
			Help:      "Filter store operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"op"},
	)
)

// RegisterFilteringMetrics registers discovery and store metrics on reg.
// Registering them again on the same registerer is a no-op.
func RegisterFilteringMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		DiscoveredFieldsTotal,
		DiscoverySkipsTotal,
		StoreOperationsTotal,
		StoreOperationDuration,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) && are.ExistingCollector == c {
				continue
			}
			return fmt.Errorf("register filtering metrics: %w", err)
		}
	}
	return nil
}

// Store operation statuses.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// ObserveStoreOperation records one store call.
func ObserveStoreOperation(op, status string, seconds float64) {
	StoreOperationsTotal.WithLabelValues(op, status).Inc()
	StoreOperationDuration.WithLabelValues(op).Observe(seconds)
}
