package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every counter/histogram the build and query sides emit,
// registered against a private registry owned by this value.
type Metrics struct {
	registry *prometheus.Registry

	BuildDuration   prometheus.Histogram
	EdgesCompressed prometheus.Counter
	TurnsRejected   *prometheus.CounterVec
	SnappingQueries prometheus.Counter
	SnapLatency     prometheus.Histogram
	RobustSnapWiden prometheus.Histogram
}

// New builds a Metrics bundle, registering every collector against a
// fresh, private prometheus.Registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "routekernel",
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of a full preprocessing build.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		EdgesCompressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routekernel",
			Subsystem: "build",
			Name:      "edges_compressed_total",
			Help:      "Node-based edges folded into a neighbor's geometry bucket by the compressor.",
		}),
		TurnsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routekernel",
			Subsystem: "build",
			Name:      "turns_rejected_total",
			Help:      "Turn candidates rejected during edge-based graph construction, by reason (spec.md §7 Skipped).",
		}, []string{"reason"}),
		SnappingQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routekernel",
			Subsystem: "query",
			Name:      "snap_requests_total",
			Help:      "Nearest/nearest-in-range/robust-snap requests served.",
		}),
		SnapLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "routekernel",
			Subsystem: "query",
			Name:      "snap_latency_seconds",
			Help:      "Latency of a single nearest-neighbor query against the spatial index.",
			Buckets:   prometheus.DefBuckets,
		}),
		RobustSnapWiden: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "routekernel",
			Subsystem: "query",
			Name:      "robust_snap_widenings",
			Help:      "Number of batch-doubling rounds RobustSnap needed before finding a non-tiny match.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}),
	}

	reg.MustRegister(
		m.BuildDuration,
		m.EdgesCompressed,
		m.TurnsRejected,
		m.SnappingQueries,
		m.SnapLatency,
		m.RobustSnapWiden,
	)
	return m
}

// Handler returns an http.Handler exposing this bundle's registry in the
// Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
