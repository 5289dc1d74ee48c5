package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "odds_board"

// Metrics holds the Prometheus collectors for the board. It satisfies the
// usecase metrics sink and the document load observer.
type Metrics struct {
	registry *prometheus.Registry

	DocumentStatus   *prometheus.GaugeVec
	DocumentMatches  prometheus.Gauge
	DocumentLoadTime prometheus.Histogram

	SearchesTotal   prometheus.Counter
	SearchMatches   prometheus.Histogram
	SearchLatency   prometheus.Histogram
	SelectionsTotal *prometheus.CounterVec
	ToggleTotal     *prometheus.CounterVec
	PivotCacheTotal *prometheus.CounterVec

	ActiveSessions   prometheus.Gauge
	CountdownStreams prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		DocumentStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "document_status",
				Help:      "Document load status, 1 for the current status",
			},
			[]string{"status"},
		),
		DocumentMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "document_matches",
			Help:      "Number of match records in the loaded document",
		}),
		DocumentLoadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "document_load_seconds",
			Help:      "Time spent fetching and decoding the document",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}),

		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_total",
			Help:      "Total search queries evaluated",
		}),
		SearchMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_matches",
			Help:      "Matches returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		SearchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_latency_seconds",
			Help:      "Search evaluation latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us to ~200ms
		}),
		SelectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "selections_total",
				Help:      "Match selections by outcome",
			},
			[]string{"outcome"},
		),
		ToggleTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "section_toggles_total",
				Help:      "Section expand and collapse toggles",
			},
			[]string{"state"},
		),
		PivotCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "pivot_cache_lookups_total",
				Help:      "Pivot memo lookups by result",
			},
			[]string{"result"},
		),

		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Board sessions currently held in memory",
		}),
		CountdownStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "countdown_subscribers",
			Help:      "Open countdown streams",
		}),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registerAll()
	return m
}

func (m *Metrics) registerAll() {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.DocumentStatus,
		m.DocumentMatches,
		m.DocumentLoadTime,
		m.SearchesTotal,
		m.SearchMatches,
		m.SearchLatency,
		m.SelectionsTotal,
		m.ToggleTotal,
		m.PivotCacheTotal,
		m.ActiveSessions,
		m.CountdownStreams,
		m.HTTPRequests,
		m.HTTPLatency,
	)
	m.DocumentStatus.WithLabelValues("loading").Set(1)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveDocumentLoad(status string, matches int, elapsed time.Duration) {
	for _, s := range []string{"loading", "ready", "failed"} {
		value := 0.0
		if s == status {
			value = 1
		}
		m.DocumentStatus.WithLabelValues(s).Set(value)
	}
	m.DocumentMatches.Set(float64(matches))
	m.DocumentLoadTime.Observe(elapsed.Seconds())
}

func (m *Metrics) SearchPerformed(matches int, elapsed time.Duration) {
	m.SearchesTotal.Inc()
	m.SearchMatches.Observe(float64(matches))
	m.SearchLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) SelectionRecorded(outcome string) {
	m.SelectionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SectionToggled(expanded bool) {
	state := "collapsed"
	if expanded {
		state = "expanded"
	}
	m.ToggleTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) SessionsActive(count int) {
	m.ActiveSessions.Set(float64(count))
}

func (m *Metrics) CountdownSubscribers(delta int) {
	m.CountdownStreams.Add(float64(delta))
}

func (m *Metrics) PivotCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.PivotCacheTotal.WithLabelValues(result).Inc()
}

// TrackPivotCache exposes the size of the pivot memo as a gauge read at scrape time.
// Call it at most once per Metrics.
func (m *Metrics) TrackPivotCache(entries func() int) {
	if entries == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "pivot_cache_entries",
		Help:      "Number of matches with memoized odds tables",
	}, func() float64 {
		return float64(entries())
	}))
}

// ObserveHTTP records one finished request. route is the mux pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
