// Package metrics exposes deskgrid's Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one daemon instance.
type Metrics struct {
	registry *prometheus.Registry

	LayoutPasses   *prometheus.CounterVec
	WindowsHidden  prometheus.Counter
	OverviewActive prometheus.Gauge
	LayoutSeconds  prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LayoutPasses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskgrid_layout_passes_total",
				Help: "Layout passes by the path that produced them",
			},
			[]string{"path"},
		),
		WindowsHidden: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deskgrid_windows_hidden_total",
				Help: "Windows left out of an overview because they did not fit",
			},
		),
		OverviewActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskgrid_overview_active",
				Help: "Number of displays currently showing an overview",
			},
		),
		LayoutSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deskgrid_layout_seconds",
				Help:    "Time spent computing a layout",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
			},
		),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LayoutPass records one layout computation.
func (m *Metrics) LayoutPass(path string, elapsed time.Duration, hidden int) {
	m.LayoutPasses.WithLabelValues(path).Inc()
	m.LayoutSeconds.Observe(elapsed.Seconds())
	if hidden > 0 {
		m.WindowsHidden.Add(float64(hidden))
	}
}

// SetOverviews records how many displays have an active overview.
func (m *Metrics) SetOverviews(n int) {
	m.OverviewActive.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
