package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/compat-infra/rth/types"
)

const (
	MetricsNamespace = "rth"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "invocations_total",
		Help:      "Count of external toolchain invocations",
	}, []string{
		"stage",
		"result",
	})

	invocationDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "invocation_duration_seconds",
		Help:      "Duration of the most recent invocation per stage",
	}, []string{
		"stage",
	})

	matrixResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "matrix_results",
		Help:      "Result of matrix test runs",
	}, []string{
		"test_name",
		"run_id",
		"result",
	})

	matrixPairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "matrix_pairs_total",
		Help:      "Number of matrix pairs linked and executed",
	}, []string{
		"test_name",
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

// RecordInvocation records one external command invocation and its outcome.
func RecordInvocation(stage types.Stage, duration time.Duration, success bool) {
	result := types.StatusPass
	if !success {
		result = types.StatusFail
	}
	if Debug {
		log.Debug("metric inc",
			"m", "invocations_total",
			"stage", stage,
			"result", result,
			"duration", duration)
	}
	invocationsTotal.WithLabelValues(stage.String(), result.String()).Inc()
	invocationDuration.WithLabelValues(stage.String()).Set(duration.Seconds())
}

// RecordMatrix records the outcome of a whole matrix run.
func RecordMatrix(testName string, runID string, pairs int, status types.Status) {
	if Debug {
		log.Debug("metric set",
			"m", "matrix_results",
			"test_name", testName,
			"run_id", runID,
			"pairs", pairs,
			"result", status)
	}
	matrixResults.WithLabelValues(testName, runID, status.String()).Set(1)
	matrixPairsTotal.WithLabelValues(testName, runID).Add(float64(pairs))
}
