package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airemad_raw_rows_read_total",
			Help: "Raw wide-format rows read from monthly exports",
		},
	)

	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airemad_rows_dropped_total",
			Help: "Rows dropped during cleaning",
		},
		[]string{"reason"},
	)

	SamplesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airemad_samples_written_total",
			Help: "Long-format samples written to per-pollutant CSV files",
		},
		[]string{"pollutant"},
	)

	FetchCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airemad_fetch_calls_total",
			Help: "Total open-data portal download attempts",
		},
		[]string{"status"},
	)

	FetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "airemad_fetch_latency_seconds",
			Help:    "Portal download latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
