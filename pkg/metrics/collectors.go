package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fortress"

//nolint:gochecknoglobals
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern, method and status.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
	}, []string{"route", "method", "status"})

	// ReportsTotal counts served reports by source: cache, generated or failed.
	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Served reports by source.",
	}, []string{"source"})

	UsageDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "usage_denied_total",
		Help:      "Report requests refused because the monthly quota was used up.",
	}, []string{"subject"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Latency of AI provider calls.",
		Buckets:   []float64{1, 5, 10, 20, 40, 60, 90, 120, 180},
	}, []string{"provider", "purpose"})

	BlogPostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_posts_total",
		Help:      "Blog generation results (published, skipped, failed).",
	}, []string{"result"})

	BillingEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_events_total",
		Help:      "Stripe webhook events by type.",
	}, []string{"type"})

	QuoteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_quote_failures_total",
		Help:      "Symbols that could not be quoted.",
	})

	PriceAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watchlist_price_alerts_total",
		Help:      "Price move alerts raised for watched tickers.",
	})
)
