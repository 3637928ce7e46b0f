package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/testops/htmlreport/types"
)

const (
	MetricsNamespace = "htmlreport"
)

var (
	Debug                bool = false
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "results_total",
		Help:      "Count of collected test results",
	}, []string{
		"run_id",
		"group",
		"status",
	})

	reportResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_results",
		Help:      "Overall classification of a rendered report",
	}, []string{
		"run_id",
		"result",
	})

	reportTestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "report_test_total",
		Help:      "Total number of tests in a rendered report",
	}, []string{
		"run_id",
	})

	reportTestPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "report_test_passed",
		Help:      "Number of passed tests in a rendered report",
	}, []string{
		"run_id",
	})

	reportTestFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "report_test_failed",
		Help:      "Number of failed tests in a rendered report",
	}, []string{
		"run_id",
	})

	reportDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_duration_seconds",
		Help:      "Wall clock duration of the reported run",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordResult counts one emitted ResultRecord.
func RecordResult(runID string, group string, status types.Status) {
	if !status.IsValid() {
		log.Error("RecordResult - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "results_total",
			"run_id", runID,
			"group", group,
			"status", status)
	}
	resultsTotal.WithLabelValues(runID, group, string(status)).Inc()
}

// RecordReport records the run-level outcome of one rendered report.
func RecordReport(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	reportResults.WithLabelValues(runID, result).Set(1)
	reportTestTotal.WithLabelValues(runID).Add(float64(total))
	reportTestPassed.WithLabelValues(runID).Add(float64(passed))
	reportTestFailed.WithLabelValues(runID).Add(float64(failed))
	reportDuration.WithLabelValues(runID).Set(duration.Seconds())
}
