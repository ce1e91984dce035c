package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_pool_count",
		Help: "Total number of pools in the registry",
	})

	PoolUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_pool_updates_total",
			Help: "Total number of pool upserts and removals",
		},
		[]string{"op"},
	)

	PoolsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_pools_persisted_total",
		Help: "Total number of pool rows written to storage",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_persist_failures_total",
		Help: "Total number of failed storage batches",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"swap_mode", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_quote_duration_seconds",
			Help:    "Quote request duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1},
		},
		[]string{"swap_mode"},
	)

	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_quote_cache_hits_total",
		Help: "Total number of quote cache hits",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_quote_cache_misses_total",
		Help: "Total number of quote cache misses",
	})

	QuoteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_quote_cache_size",
		Help: "Current number of entries in quote cache",
	})

	HopCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relay_route_hops",
		Help:    "Number of relay hops per quoted route",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	PriceImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_price_impact_bps",
			Help:    "Price impact in basis points",
			Buckets: []float64{0, 10, 50, 100, 300, 500, 1000, 5000, 10000},
		},
		[]string{"severity"},
	)

	// Memo metrics
	MemoRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_memo_requests_total",
			Help: "Total number of settlement memo build requests",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_http_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)
