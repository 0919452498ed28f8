// Package metrics exposes Prometheus instrumentation for the repunto API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the API metrics and helpers to wire them into handlers
type Collector struct {
	gatherer prometheus.Gatherer

	Requests       *prometheus.CounterVec
	Durations      *prometheus.HistogramVec
	CatalogPoints  *prometheus.GaugeVec
	MarkersSynced  prometheus.Counter
	CatalogReloads *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repunto_http_requests_total",
		Help: "Handled API requests by route and status code.",
	}, []string{"route", "code"}))
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repunto_http_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"}))
	if err != nil {
		return nil, err
	}

	points, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "repunto_catalog_points",
		Help: "Recycling points in the current catalog by material.",
	}, []string{"material"}))
	if err != nil {
		return nil, err
	}

	synced, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repunto_markers_synced_total",
		Help: "Markers placed by marker layer syncs.",
	}))
	if err != nil {
		return nil, err
	}

	reloads, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repunto_catalog_reloads_total",
		Help: "Catalog reload attempts by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Requests:       requests,
		Durations:      durations,
		CatalogPoints:  points,
		MarkersSynced:  synced,
		CatalogReloads: reloads,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveCatalog sets the per-material point gauges
func (c *Collector) ObserveCatalog(points []*models.RecyclingPoint) {
	if c == nil {
		return
	}
	counts := filter.Counts(points)
	for _, m := range models.Materials {
		c.CatalogPoints.WithLabelValues(string(m)).Set(float64(counts[m]))
	}
}

// ObserveSync records the markers placed by one sync
func (c *Collector) ObserveSync(placed int) {
	if c == nil {
		return
	}
	c.MarkersSynced.Add(float64(placed))
}

// ObserveReload records a catalog reload attempt
func (c *Collector) ObserveReload(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.CatalogReloads.WithLabelValues(result).Inc()
}

// Middleware records request count and latency under route
func (c *Collector) Middleware(route string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		c.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		c.Durations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
