// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	BarsFetched      *prometheus.CounterVec
	BarsStored       prometheus.Counter
	FetchErrors      *prometheus.CounterVec
	FetchLatency     *prometheus.HistogramVec
	BarsDroppedDirty prometheus.Counter

	// Simulation metrics
	BarsReplayed     prometheus.Counter
	SignalsGenerated *prometheus.CounterVec
	OrdersExecuted   *prometheus.CounterVec
	OrdersRejected   *prometheus.CounterVec
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "stock_backtest_lab"
	}

	return &Metrics{
		// Ingestion metrics
		BarsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_fetched_total",
			Help:      "Total number of price bars fetched by source",
		}, []string{"source"}),
		BarsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_stored_total",
			Help:      "Total number of price bars stored to database",
		}),
		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fetch_errors_total",
			Help:      "Total number of fetch errors by source",
		}, []string{"source"}),
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fetch_latency_seconds",
			Help:      "Market data fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		BarsDroppedDirty: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_dropped_dirty_total",
			Help:      "Total number of bars dropped by the cleaner",
		}),

		// Simulation metrics
		BarsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "bars_replayed_total",
			Help:      "Total number of trading days replayed",
		}),
		SignalsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "signals_generated_total",
			Help:      "Total number of signals generated by action",
		}, []string{"action"}),
		OrdersExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "orders_executed_total",
			Help:      "Total number of orders executed by action",
		}, []string{"action"}),
		OrdersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "orders_rejected_total",
			Help:      "Total number of orders rejected by reason",
		}, []string{"reason"}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Backtest run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBarsFetched adds fetched bars for a source.
func RecordBarsFetched(source string, count int) {
	DefaultMetrics.BarsFetched.WithLabelValues(source).Add(float64(count))
}

// RecordBarsStored adds stored bars.
func RecordBarsStored(count int) {
	DefaultMetrics.BarsStored.Add(float64(count))
}

// RecordFetchError increments the fetch error counter for a source.
func RecordFetchError(source string) {
	DefaultMetrics.FetchErrors.WithLabelValues(source).Inc()
}

// RecordFetchLatency records a fetch duration for a source.
func RecordFetchLatency(source string, seconds float64) {
	DefaultMetrics.FetchLatency.WithLabelValues(source).Observe(seconds)
}

// RecordSignal increments the signal counter for an action.
func RecordSignal(action string) {
	DefaultMetrics.SignalsGenerated.WithLabelValues(action).Inc()
}

// RecordOrderExecuted increments the executed order counter for an action.
func RecordOrderExecuted(action string) {
	DefaultMetrics.OrdersExecuted.WithLabelValues(action).Inc()
}

// RecordOrderRejected increments the rejected order counter for a reason.
func RecordOrderRejected(reason string) {
	DefaultMetrics.OrdersRejected.WithLabelValues(reason).Inc()
}

// RecordRun records a completed backtest run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordReportGenerated increments the reports counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
