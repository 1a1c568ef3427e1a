package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kpi",
		Name:      "record_source_page_duration_seconds",
		Help:      "Duration of a single paginated record source read.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "outcome"})

	pageRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kpi",
		Name:      "record_source_rows_total",
		Help:      "Rows read from the record source.",
	}, []string{"table"})

	reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kpi",
		Name:      "reports_generated_total",
		Help:      "Reports generated, by report and outcome.",
	}, []string{"report", "outcome"})
)

// ObservePage records one page read
func ObservePage(table string, start time.Time, rows int, err error) {
	pageDuration.WithLabelValues(table, outcome(err)).Observe(time.Since(start).Seconds())
	if err == nil {
		pageRows.WithLabelValues(table).Add(float64(rows))
	}
}

// ObserveReport records one generated report
func ObserveReport(report string, err error) {
	reports.WithLabelValues(report, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
