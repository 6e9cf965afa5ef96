package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// DistanceLookups counts per-candidate distances by how they were obtained.
	DistanceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_lookups_total", Help: "Candidate distances by method (road or haversine)."},
		[]string{"method"},
	)
	// PriceQuotes counts accepted market quotes by provenance.
	PriceQuotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "price_quotes_total", Help: "Market price quotes by provenance."},
		[]string{"source"},
	)
	// Decisions counts decisions by recommendation kind.
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "decisions_total", Help: "Market decisions by recommendation kind."},
		[]string{"kind"},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(DistanceLookups)
		Registry.MustRegister(PriceQuotes)
		Registry.MustRegister(Decisions)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
