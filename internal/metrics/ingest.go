package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest and dataset metrics. Registered explicitly via RegisterIngestMetrics
// (no init()) so tests can exercise the loader without touching the default
// registry.
var (
	// RowsAcceptedTotal counts rows accepted into the dataset, per source.
	RowsAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "ingest_rows_accepted_total",
			Help:      "Rows accepted into the dataset per source",
		},
		[]string{"source"},
	)

	// RowsRejectedTotal counts rows dropped during normalization, per reason.
	RowsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "ingest_rows_rejected_total",
			Help:      "Rows dropped during normalization per reject reason",
		},
		[]string{"reason"},
	)

	// DatasetRecords reports the size of the loaded dataset per category.
	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "prodex",
			Name:      "dataset_records",
			Help:      "Loaded professional records per category",
		},
		[]string{"category"},
	)

	// DatasetLastLoad reports the unix timestamp of the last completed load.
	DatasetLastLoad = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "prodex",
			Name:      "dataset_last_load_timestamp_seconds",
			Help:      "Unix timestamp of the last completed dataset load",
		},
	)

	// DatasetLoadDuration observes full dataset load duration.
	DatasetLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "dataset_load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// DatasetLoadsTotal counts completed loads per population strategy.
	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "dataset_loads_total",
			Help:      "Completed dataset loads per population strategy",
		},
		[]string{"strategy"},
	)
)

// RegisterIngestMetrics registers ingest and dataset metrics with the default
// Prometheus registry. Call once from the composition root.
func RegisterIngestMetrics() {
	prometheus.MustRegister(
		RowsAcceptedTotal,
		RowsRejectedTotal,
		DatasetRecords,
		DatasetLastLoad,
		DatasetLoadDuration,
		DatasetLoadsTotal,
	)
}
