package htmlreport

import (
	"github.com/testops/htmlreport/metrics"
	"github.com/testops/htmlreport/report"
)

// MetricsReporter is responsible for reporting metrics from aggregated runs.
type MetricsReporter interface {
	ReportResults(runID string, rep *report.RunReport)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the aggregated run to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(runID string, rep *report.RunReport) {
	duration := rep.Summary.StopTime.Sub(rep.Summary.StartTime)
	metrics.RecordReport(
		runID,
		rep.Classification(),
		rep.Summary.Total(),
		rep.Summary.Pass,
		rep.Summary.Fail+rep.Summary.Error,
		duration,
	)
}
