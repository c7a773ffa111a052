// Package metrics exposes Prometheus instrumentation for matching, storage and the catalog.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store outcomes recorded per candidate by the engine.
const (
	StoreCreated = "created"
	StoreReused  = "reused"
	StoreFailed  = "failed"
)

var (
	durationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	scoreBuckets    = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// Metrics holds every collector on a private registry. A nil *Metrics is valid and
// records nothing, so components can be built without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	matchRequests    *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	candidatesScored prometheus.Counter
	matchScores      prometheus.Histogram
	storeOperations  *prometheus.CounterVec
	catalogSuppliers prometheus.Gauge
	catalogReloads   *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers all collectors under namespace, plus the Go runtime and process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "matchmaker"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: reg,
		matchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Match requests by outcome.",
		}, []string{"outcome"}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent scoring, persisting and explaining one match request.",
			Buckets:   durationBuckets,
		}),
		candidatesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_scored_total",
			Help:      "Supplier candidates scored.",
		}),
		matchScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Distribution of final match scores.",
			Buckets:   scoreBuckets,
		}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Recommendation store outcomes per candidate.",
		}, []string{"result"}),
		catalogSuppliers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_suppliers",
			Help:      "Suppliers currently loaded in the catalog.",
		}),
		catalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Supplier catalog reloads by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   durationBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.matchRequests,
		m.matchDuration,
		m.candidatesScored,
		m.matchScores,
		m.storeOperations,
		m.catalogSuppliers,
		m.catalogReloads,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveMatch records one finished match request.
func (m *Metrics) ObserveMatch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.matchRequests.WithLabelValues(outcome).Inc()
	m.matchDuration.Observe(d.Seconds())
}

// ObserveScore records one scored candidate.
func (m *Metrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.candidatesScored.Inc()
	m.matchScores.Observe(score)
}

// RecordStore records a store outcome: StoreCreated, StoreReused or StoreFailed.
func (m *Metrics) RecordStore(result string) {
	if m == nil {
		return
	}
	m.storeOperations.WithLabelValues(result).Inc()
}

// SetCatalogSize records the number of suppliers in the catalog.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogSuppliers.Set(float64(n))
}

// RecordCatalogReload counts a catalog reload attempt.
func (m *Metrics) RecordCatalogReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.catalogReloads.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served HTTP request. route is the matched route pattern.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
