// Package metrics expone las métricas Prometheus del reporte de inventario.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

var _ report.MetricsRecorder = (*Recorder)(nil)

// Recorder implementa report.MetricsRecorder sobre un registry propio.
type Recorder struct {
	registry *prometheus.Registry

	buildDuration prometheus.Histogram
	buildFailures *prometheus.CounterVec
	alerts        *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
}

// NewRecorder registra las métricas en un registry nuevo (con las de proceso y runtime de Go).
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inventory_report_build_duration_seconds",
			Help:    "Duración de BuildReportPayload, lecturas incluidas",
			Buckets: prometheus.DefBuckets,
		}),
		buildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_report_build_failures_total",
			Help: "Reportes fallidos por lectura de origen",
		}, []string{"source"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_report_alerts_total",
			Help: "Alertas emitidas por tipo",
		}, []string{"type"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_report_deliveries_total",
			Help: "Envíos de reporte por correo según resultado",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.buildDuration, r.buildFailures, r.alerts, r.deliveries,
	)
	return r
}

func (r *Recorder) ObserveBuild(elapsed time.Duration, failedSource string) {
	r.buildDuration.Observe(elapsed.Seconds())
	if failedSource != "" {
		r.buildFailures.WithLabelValues(failedSource).Inc()
	}
}

func (r *Recorder) CountAlerts(alertType dto.AlertType, n int) {
	if n <= 0 {
		return
	}
	r.alerts.WithLabelValues(string(alertType)).Add(float64(n))
}

func (r *Recorder) CountDelivery(outcome string) {
	r.deliveries.WithLabelValues(outcome).Inc()
}

// Handler handler net/http para /metrics. En fiber se monta con fasthttpadaptor.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
