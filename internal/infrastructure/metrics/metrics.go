package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketplaceMetrics holds every collector the service exports. A nil
// *MarketplaceMetrics is valid and records nothing.
type MarketplaceMetrics struct {
	// Investments
	InvestmentsCreatedTotal       prometheus.CounterVec
	InvestmentsCreatedAmountTotal prometheus.CounterVec
	InvestmentsClampedTotal       prometheus.Counter
	InvestmentTransitionsTotal    prometheus.CounterVec

	// Escrow mirror and chain sync
	EscrowTransitionsTotal prometheus.CounterVec
	ChainEventsTotal       prometheus.CounterVec
	ChainSyncDuration      prometheus.Histogram
	ChainCursor            prometheus.Gauge

	// Cart
	CheckoutsTotal      prometheus.CounterVec
	CheckoutAmountTotal prometheus.CounterVec

	// Governance
	VotesCastTotal prometheus.CounterVec

	// Transport
	HTTPRequestDuration prometheus.HistogramVec
	EventsPublishedTotal prometheus.CounterVec

	// Errors
	ErrorsTotal prometheus.CounterVec
}

// NewMarketplaceMetrics registers all collectors on reg.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	f := promauto.With(reg)
	return &MarketplaceMetrics{
		InvestmentsCreatedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investments_created_total",
				Help: "Investments created, by initial status",
			},
			[]string{"status"},
		),
		InvestmentsCreatedAmountTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investments_created_amount_total",
				Help: "Sum of final (clamped) investment amounts in minor units",
			},
			[]string{"currency"},
		),
		InvestmentsClampedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "investments_clamped_total",
				Help: "Investments whose requested amount was clamped to project bounds",
			},
		),
		InvestmentTransitionsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investment_transitions_total",
				Help: "Investment status transitions",
			},
			[]string{"from", "to"},
		),

		EscrowTransitionsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transitions_total",
				Help: "Escrow mirror status changes",
			},
			[]string{"status"},
		),
		ChainEventsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chain_events_total",
				Help: "Escrow contract events seen by the sync job",
			},
			[]string{"event", "result"},
		),
		ChainSyncDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chain_sync_duration_seconds",
				Help:    "Duration of one chain sync pass",
				Buckets: prometheus.DefBuckets,
			},
		),
		ChainCursor: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "chain_sync_next_block",
				Help: "Next block the chain sync will scan",
			},
		),

		CheckoutsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkouts_total",
				Help: "Checkout attempts by result",
			},
			[]string{"result"},
		),
		CheckoutAmountTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_amount_total",
				Help: "Sum of paid order totals in minor units",
			},
			[]string{"currency"},
		),

		VotesCastTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_votes_total",
				Help: "Governance votes cast",
			},
			[]string{"choice"},
		),

		HTTPRequestDuration: *f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		EventsPublishedTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Domain events handed to the broker",
			},
			[]string{"topic", "result"},
		),

		ErrorsTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_errors_total",
				Help: "Errors by operation and kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

func (m *MarketplaceMetrics) RecordInvestmentCreated(status, currency string, amount int64, clamped bool) {
	if m == nil {
		return
	}
	m.InvestmentsCreatedTotal.WithLabelValues(status).Inc()
	m.InvestmentsCreatedAmountTotal.WithLabelValues(currency).Add(float64(amount))
	if clamped {
		m.InvestmentsClampedTotal.Inc()
	}
}

func (m *MarketplaceMetrics) RecordInvestmentTransition(from, to string) {
	if m == nil {
		return
	}
	m.InvestmentTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *MarketplaceMetrics) RecordEscrowTransition(status string) {
	if m == nil {
		return
	}
	m.EscrowTransitionsTotal.WithLabelValues(status).Inc()
}

func (m *MarketplaceMetrics) RecordChainEvent(event, result string) {
	if m == nil {
		return
	}
	m.ChainEventsTotal.WithLabelValues(event, result).Inc()
}

func (m *MarketplaceMetrics) RecordChainSync(durationSeconds float64, nextBlock uint64) {
	if m == nil {
		return
	}
	m.ChainSyncDuration.Observe(durationSeconds)
	m.ChainCursor.Set(float64(nextBlock))
}

func (m *MarketplaceMetrics) RecordCheckout(result, currency string, total int64) {
	if m == nil {
		return
	}
	m.CheckoutsTotal.WithLabelValues(result).Inc()
	if result == "paid" {
		m.CheckoutAmountTotal.WithLabelValues(currency).Add(float64(total))
	}
}

func (m *MarketplaceMetrics) RecordVote(choice string) {
	if m == nil {
		return
	}
	m.VotesCastTotal.WithLabelValues(choice).Inc()
}

func (m *MarketplaceMetrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}

func (m *MarketplaceMetrics) RecordPublish(topic string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(topic, result).Inc()
}

func (m *MarketplaceMetrics) RecordError(operation, kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}
