// Package metrics exposes prometheus instrumentation for the analytics
// pipeline: load, build, centrality and simulation counters with
// duration histograms, plus graph-size gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application
type Registry struct {
	registry *prometheus.Registry

	// Loader metrics
	RecordsLoaded prometheus.Gauge
	LoadDuration  prometheus.Histogram

	// Network builder metrics
	BuildsTotal   *prometheus.CounterVec
	BuildDuration prometheus.Histogram

	// Graph metrics
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	// Analytics metrics
	CentralityRunsTotal *prometheus.CounterVec
	CentralityDuration  prometheus.Histogram
	SimulationsTotal    *prometheus.CounterVec
	SimulationDuration  prometheus.Histogram
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.RecordsLoaded = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "tradenet_records_loaded",
		Help: "Number of trade records in the current dataset",
	})
	r.LoadDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "tradenet_load_duration_seconds",
		Help:    "Dataset load duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
	})

	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradenet_builds_total",
			Help: "Total number of network builds",
		},
		[]string{"mode", "status"},
	)
	r.BuildDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "tradenet_build_duration_seconds",
		Help:    "Network build duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
	})

	r.GraphNodes = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "tradenet_graph_nodes",
		Help: "Nodes in the most recently built graph slice",
	})
	r.GraphEdges = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "tradenet_graph_edges",
		Help: "Edges in the most recently built graph slice",
	})

	r.CentralityRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradenet_centrality_runs_total",
			Help: "Total number of centrality computations",
		},
		[]string{"status"},
	)
	r.CentralityDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "tradenet_centrality_duration_seconds",
		Help:    "Centrality computation duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 10.0},
	})

	r.SimulationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradenet_simulations_total",
			Help: "Total number of CES shock simulations",
		},
		[]string{"status"},
	)
	r.SimulationDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "tradenet_simulation_duration_seconds",
		Help:    "Shock simulation duration in seconds",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
	})

	return r
}

// Gatherer exposes the underlying registry for scraping or test assertions.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordLoad records a completed dataset load.
func (r *Registry) RecordLoad(records int, duration time.Duration) {
	r.RecordsLoaded.Set(float64(records))
	r.LoadDuration.Observe(duration.Seconds())
}

// RecordBuild records a network build attempt.
func (r *Registry) RecordBuild(mode, status string, duration time.Duration) {
	r.BuildsTotal.WithLabelValues(mode, status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
}

// SetGraphSize records the dimensions of the active graph slice.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordCentrality records a centrality computation.
func (r *Registry) RecordCentrality(status string, duration time.Duration) {
	r.CentralityRunsTotal.WithLabelValues(status).Inc()
	r.CentralityDuration.Observe(duration.Seconds())
}

// RecordSimulation records a shock simulation attempt.
func (r *Registry) RecordSimulation(status string, duration time.Duration) {
	r.SimulationsTotal.WithLabelValues(status).Inc()
	r.SimulationDuration.Observe(duration.Seconds())
}
