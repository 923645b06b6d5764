package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	recordsTotal   *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		recordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "herd",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Rows processed by the workbook import, by worksheet purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		importDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "herd",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Duration of workbook imports.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) record(purpose string, outcome string, n int) {
	if n <= 0 {
		return
	}
	m.recordsTotal.WithLabelValues(purpose, outcome).Add(float64(n))
}

func (m *metrics) recordSkips(purpose string, skipped map[SkipReason]int) {
	for reason, n := range skipped {
		m.record(purpose, "skipped_"+string(reason), n)
	}
}
