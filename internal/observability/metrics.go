package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map report.
type Metrics struct {
	// Source load metrics, set once at startup.
	SourceRecords      prometheus.Gauge
	RecordsDropped     prometheus.Gauge
	CatalogSize        prometheus.Gauge
	SourceLoadDuration prometheus.Histogram

	// Render metrics, one observation per interaction.
	Renders        prometheus.Counter
	EmptyViews     prometheus.Counter
	RenderDuration prometheus.Histogram
	ViewSize       prometheus.Histogram

	// Session metrics.
	SessionsActive   prometheus.Gauge
	SessionEvictions *prometheus.CounterVec // labels: reason={capacity,idle,deleted}
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SourceRecords,
		m.RecordsDropped,
		m.CatalogSize,
		m.SourceLoadDuration,
		m.Renders,
		m.EmptyViews,
		m.RenderDuration,
		m.ViewSize,
		m.SessionsActive,
		m.SessionEvictions,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SourceRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bizmap",
			Name:      "source_records",
			Help:      "Records available after projection and the empty-area filter.",
		}),
		RecordsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bizmap",
			Name:      "source_records_dropped",
			Help:      "Source rows dropped because their area was empty.",
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bizmap",
			Name:      "area_catalog_size",
			Help:      "Distinct areas offered in the selection menu.",
		}),
		SourceLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizmap",
			Name:      "source_load_duration_seconds",
			Help:      "Time spent reading and projecting the source workbook.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizmap",
			Name:      "renders_total",
			Help:      "Total filtered views computed.",
		}),
		EmptyViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizmap",
			Name:      "empty_views_total",
			Help:      "Renders whose selection matched no records.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizmap",
			Name:      "render_duration_seconds",
			Help:      "Duration of a selection filter and centroid computation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ViewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizmap",
			Name:      "view_records",
			Help:      "Number of records in each rendered view.",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bizmap",
			Name:      "sessions_active",
			Help:      "Sessions currently holding a selection.",
		}),
		SessionEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizmap",
			Name:      "session_evictions_total",
			Help:      "Sessions removed by reason.",
		}, []string{"reason"}),
	}
}
