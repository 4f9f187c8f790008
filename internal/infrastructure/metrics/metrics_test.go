package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordInvestmentCreated(t *testing.T) {
	m := NewMarketplaceMetrics(prometheus.NewRegistry())
	m.RecordInvestmentCreated("ESCROWED", "KES", 500000, true)
	m.RecordInvestmentCreated("PENDING", "KES", 1000, false)

	if got := testutil.ToFloat64(m.InvestmentsCreatedTotal.WithLabelValues("ESCROWED")); got != 1 {
		t.Errorf("escrowed count = %v", got)
	}
	if got := testutil.ToFloat64(m.InvestmentsCreatedAmountTotal.WithLabelValues("KES")); got != 501000 {
		t.Errorf("amount = %v", got)
	}
	if got := testutil.ToFloat64(m.InvestmentsClampedTotal); got != 1 {
		t.Errorf("clamped = %v", got)
	}
}

func TestRecordPublishResult(t *testing.T) {
	m := NewMarketplaceMetrics(prometheus.NewRegistry())
	m.RecordPublish("order-events", nil)
	m.RecordPublish("order-events", errors.New("broker down"))
	if got := testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues("order-events", "error")); got != 1 {
		t.Errorf("errors = %v", got)
	}
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *MarketplaceMetrics
	m.RecordInvestmentCreated("PENDING", "KES", 1, false)
	m.RecordCheckout("paid", "KES", 1)
	m.RecordHTTPRequest("GET", "/health", "200", 0.1)
}
