package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

// narrativeTimeout las llamadas a LLMs pueden demorar varios segundos.
const narrativeTimeout = 10 * time.Second

// InsightsUseCase acompaña el payload con un resumen ejecutivo generado por IA.
// La narrativa nunca se mezcla dentro del payload, que sigue siendo determinista.
type InsightsUseCase struct {
	builder  PayloadBuilder
	narrator ReportNarrator
}

// NewInsightsUseCase construye el caso de uso inyectando el puerto ReportNarrator.
func NewInsightsUseCase(builder PayloadBuilder, narrator ReportNarrator) *InsightsUseCase {
	return &InsightsUseCase{builder: builder, narrator: narrator}
}

// Summarize construye el reporte y pide la narrativa con un timeout de 10 s.
func (uc *InsightsUseCase) Summarize(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
) (*dto.ReportInsightsDTO, error) {
	payload, err := uc.builder.BuildReportPayload(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	narrative, err := uc.narrator.SummarizeInventoryReport(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("narrativa IA: %w", err)
	}

	return &dto.ReportInsightsDTO{Report: payload, Narrative: narrative}, nil
}
