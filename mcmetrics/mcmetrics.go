// Package mcmetrics exposes Prometheus counters, a gauge, and a
// histogram describing scan throughput, license classification mix, and
// refresh pass duration.
package mcmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generated counts every random address the generators produce,
	// before the reachability prefilter.
	Generated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcscan_generated_total",
		Help: "Total random addresses generated, before the reachability prefilter.",
	})

	// Reachable counts addresses that passed the TCP-connect prefilter.
	Reachable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcscan_reachable_total",
		Help: "Total addresses that passed the reachability prefilter.",
	})

	// Probed counts completed status+license workflows, labeled by the
	// classification outcome.
	Probed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcscan_probed_total",
		Help: "Total completed probe workflows by license classification.",
	}, []string{"license"})

	// RefreshDuration observes the wall-clock time of one full refresh
	// pass.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mcscan_refresh_duration_seconds",
		Help:    "Duration of one full refresh pass over persisted records.",
		Buckets: prometheus.DefBuckets,
	})

	// QueueDepth samples the current length of the scan pipeline's
	// bounded channel.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mcscan_queue_depth",
		Help: "Current number of addresses buffered in the scan queue.",
	})
)

// LicenseLabel maps a tri-valued license classification to its metric
// label.
func LicenseLabel(license int) string {
	switch license {
	case 1:
		return "yes"
	case 0:
		return "no"
	default:
		return "error"
	}
}

// Handler returns the promhttp handler to mount at METRICS_ADDR.
func Handler() http.Handler {
	return promhttp.Handler()
}
