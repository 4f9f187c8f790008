package middleware

import (
	"strconv"

	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
)

// MetricsHook records request counts and latencies.
func MetricsHook(m *metrics.MarketplaceMetrics) Hook {
	return func(info RequestInfo) {
		m.RecordHTTPRequest(info.Method, info.Route, strconv.Itoa(info.Status), info.Latency.Seconds())
	}
}
