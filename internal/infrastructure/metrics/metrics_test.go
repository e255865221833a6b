package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

func TestRecorder_Contadores(t *testing.T) {
	r := NewRecorder()

	r.ObserveBuild(120*time.Millisecond, "")
	r.ObserveBuild(5*time.Millisecond, "balances")
	r.CountAlerts(dto.AlertRuptura, 3)
	r.CountAlerts(dto.AlertExcesso, 0)
	r.CountDelivery("sent")
	r.CountDelivery("sent")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.buildFailures.WithLabelValues("balances")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.alerts.WithLabelValues("RUPTURA")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.deliveries.WithLabelValues("sent")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.CountDelivery("failed")
	r.ObserveBuild(time.Second, "")
	r.ObserveBuild(time.Second, "")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `inventory_report_deliveries_total{outcome="failed"} 1`))
	assert.Contains(t, body, "inventory_report_build_duration_seconds_count 2")
	assert.Contains(t, body, "go_goroutines")
}
