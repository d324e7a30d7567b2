package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "parking_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	ingestRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "ingest_records_total",
			Help: "Ingested records by kind and result",
		},
		[]string{"kind", "result"},
	)
	ingestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "ingest_errors_total",
			Help: "Ingestion batches that failed at the store",
		},
		[]string{"kind"},
	)
	sweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "offline_sweep_runs_total",
			Help: "Offline sweeps by result",
		},
		[]string{"result"},
	)
	sweepAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "offline_sweep_alerts_total",
			Help: "Offline alerts created or touched by sweeps",
		},
		[]string{"outcome"},
	)
	alertRaises = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "alert_raises_total",
			Help: "Alert raises by type and outcome",
		},
		[]string{"alert_type", "outcome"},
	)
)

// Register adds the collectors to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ingestRecords, ingestErrors, sweepRuns, sweepAlerts, alertRaises)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func ObserveIngest(kind string, inserted, skipped, rejected int) {
	ingestRecords.WithLabelValues(kind, "inserted").Add(float64(inserted))
	ingestRecords.WithLabelValues(kind, "skipped").Add(float64(skipped))
	ingestRecords.WithLabelValues(kind, "rejected").Add(float64(rejected))
}

func ObserveIngestError(kind string) {
	ingestErrors.WithLabelValues(kind).Inc()
}

func ObserveSweep(created, touched int, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	sweepRuns.WithLabelValues(result).Inc()
	sweepAlerts.WithLabelValues("created").Add(float64(created))
	sweepAlerts.WithLabelValues("touched").Add(float64(touched))
}

func ObserveAlertRaise(alertType string, created bool) {
	outcome := "touched"
	if created {
		outcome = "created"
	}
	alertRaises.WithLabelValues(alertType, outcome).Inc()
}
