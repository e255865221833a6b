package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

// Verificar en tiempo de compilación que AnthropicService implementa ReportNarrator.
var _ report.ReportNarrator = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	narratorSystemPrompt = `Você é um analista de estoque que escreve para o gestor de uma pequena empresa brasileira.
Recebe um relatório de estoque em JSON com KPIs, alertas (RUPTURA, EXCESSO, PARADO), curva ABC e estoque parado.

Escreva um resumo executivo em português do Brasil, em texto simples (sem markdown), com no máximo 4 parágrafos curtos:
1. Situação geral do estoque (valor, itens ativos, compras e saídas do período).
2. Riscos de ruptura mais urgentes e o que comprar.
3. Capital parado em excesso ou sem movimentação e ações sugeridas.
4. Itens da curva A que merecem atenção.

Use apenas os números do JSON. Não invente produtos nem valores.`
)

// AnthropicService adaptador de report.ReportNarrator sobre la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicMessagesURL,
		httpClient: &http.Client{
			// El use case impone además un context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeInventoryReport envía el payload serializado y devuelve el texto del modelo.
func (s *AnthropicService) SummarizeInventoryReport(ctx context.Context, payload *dto.AIReportPayload) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	reportJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar reporte: %w", err)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    narratorSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: string(reportJSON)}},
	})
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}

	// Solo bloques de texto; se concatenan en orden.
	var sb strings.Builder
	for _, c := range anthResp.Content {
		if c.Type != "text" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(c.Text))
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return sb.String(), nil
}
