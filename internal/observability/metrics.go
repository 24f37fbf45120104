package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes used as the "outcome" label.
const (
	OutcomeDone      = "done"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
)

var (
	metricCaptures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zart",
		Name:      "captures_total",
		Help:      "Number of snippets appended to the archive by the capture path.",
	})
	metricArchiveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zart",
		Name:      "archive_failures_total",
		Help:      "Number of archive reads or writes that failed and were swallowed.",
	})
	metricCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zart",
		Name:      "analysis_cycles_total",
		Help:      "Analysis cycles by outcome.",
	}, []string{"outcome"})
	metricDecoys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zart",
		Name:      "decoys_generated_total",
		Help:      "Number of decoy artifacts handed to the downloader.",
	})
	metricExports = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zart",
		Name:      "archive_exports_total",
		Help:      "Number of archive exports produced by the dump command.",
	})
)

// RecordCapture counts one archived snippet.
func RecordCapture() {
	metricCaptures.Inc()
}

// RecordArchiveFailure counts one swallowed archive failure.
func RecordArchiveFailure() {
	metricArchiveFailures.Inc()
}

// RecordCycle counts one finished analysis cycle.
func RecordCycle(outcome string) {
	metricCycles.WithLabelValues(outcome).Inc()
}

// RecordDecoy counts one generated decoy.
func RecordDecoy() {
	metricDecoys.Inc()
}

// RecordExport counts one archive export.
func RecordExport() {
	metricExports.Inc()
}
