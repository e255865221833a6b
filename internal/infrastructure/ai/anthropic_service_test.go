package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *AnthropicService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewAnthropicService("test-key", "claude-test")
	s.endpoint = srv.URL
	return s
}

func TestSummarize_OK(t *testing.T) {
	var got anthropicRequest
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" Estoque saudável. "},{"type":"tool_use"},{"type":"text","text":"Repor canetas."}]}`))
	})

	payload := &dto.AIReportPayload{Company: dto.ReportCompanyDTO{Name: "Loja Teste"}}
	text, err := s.SummarizeInventoryReport(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "Estoque saudável.\nRepor canetas.", text)
	assert.Equal(t, "claude-test", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, `"name":"Loja Teste"`)
}

func TestSummarize_ErrorDeAPI(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := s.SummarizeInventoryReport(context.Background(), &dto.AIReportPayload{})
	assert.ErrorContains(t, err, "rate_limit_error")
}

func TestSummarize_RespuestaVacia(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := s.SummarizeInventoryReport(context.Background(), &dto.AIReportPayload{})
	assert.ErrorContains(t, err, "vacía")
}

func TestSummarize_Timeout(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.SummarizeInventoryReport(ctx, &dto.AIReportPayload{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSummarize_SinAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "m").SummarizeInventoryReport(context.Background(), &dto.AIReportPayload{})
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}
