// Package report contiene el agregador del reporte de inventario (KPIs, alertas,
// curva ABC y estoque parado) y los casos de uso que lo entregan por correo o
// lo enriquecen con una narrativa generada por IA.
package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/domain"
	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Fuentes de lectura, usadas en UpstreamFetchError y en las métricas.
const (
	SourceProducts  = "products"
	SourceMovements = "movements"
	SourceBalances  = "balances"
	SourceCompany   = "company"
)

var hundred = decimal.NewFromInt(100)

// Aggregator construye el AIReportPayload de una empresa para un período.
//
// Fuente de datos: los cuatro puertos de Sources (consultas read-only).
// No guarda estado entre llamadas; cada invocación trabaja sobre su propia copia de los snapshots.
type Aggregator struct {
	src     Sources
	rules   Rules
	log     zerolog.Logger
	metrics MetricsRecorder
}

// NewAggregator construye el agregador. metrics puede ser nil.
func NewAggregator(src Sources, rules Rules, log zerolog.Logger, metrics MetricsRecorder) *Aggregator {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Aggregator{src: src, rules: rules, log: log, metrics: metrics}
}

// snapshots datos crudos leídos para un reporte.
type snapshots struct {
	products  []*entity.Product
	movements []*entity.StockMovement
	balances  []*entity.StockBalance
	company   *entity.Company
}

// BuildReportPayload genera el reporte para [periodStart, periodEnd] (días inclusivos).
//
// Cuatro lecturas en paralelo:
//  1. productos de la empresa
//  2. historial completo de movimientos (el período se filtra en memoria; estoque parado necesita todo)
//  3. saldos por bodega
//  4. datos de la empresa
func (a *Aggregator) BuildReportPayload(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
) (*dto.AIReportPayload, error) {
	start := dayOf(periodStart, periodStart.Location())
	end := dayOf(periodEnd, periodStart.Location())
	if start.After(end) {
		return nil, domain.ErrInvalidRange
	}
	if companyID == "" {
		return nil, domain.ErrMissingCompanyContext
	}

	began := time.Now()
	snap, err := a.fetchSnapshots(ctx, companyID)
	if err != nil {
		source := ""
		var fe *domain.UpstreamFetchError
		if errors.As(err, &fe) {
			source = fe.Source
		}
		a.metrics.ObserveBuild(time.Since(began), source)
		a.log.Warn().Err(err).Str("company_id", companyID).Msg("reporte de inventario: lectura fallida")
		return nil, err
	}

	payload := computePayload(snap, start, end, a.rules)

	a.metrics.ObserveBuild(time.Since(began), "")
	for _, t := range []dto.AlertType{dto.AlertRuptura, dto.AlertExcesso, dto.AlertParado} {
		a.metrics.CountAlerts(t, countAlerts(payload.Alerts, t))
	}
	a.log.Debug().
		Str("company_id", companyID).
		Str("start", payload.Period.StartDate).
		Str("end", payload.Period.EndDate).
		Int("products", len(snap.products)).
		Int("movements", len(snap.movements)).
		Int("alerts", len(payload.Alerts)).
		Dur("elapsed", time.Since(began)).
		Msg("reporte de inventario generado")

	return payload, nil
}

// fetchSnapshots lanza las cuatro lecturas y espera a todas antes de devolver.
// Los errores se revisan en orden fijo para que el resultado sea determinista.
func (a *Aggregator) fetchSnapshots(ctx context.Context, companyID string) (*snapshots, error) {
	type productsResult struct {
		rows []*entity.Product
		err  error
	}
	type movementsResult struct {
		rows []*entity.StockMovement
		err  error
	}
	type balancesResult struct {
		rows []*entity.StockBalance
		err  error
	}
	type companyResult struct {
		company *entity.Company
		err     error
	}

	productsCh := make(chan productsResult, 1)
	movementsCh := make(chan movementsResult, 1)
	balancesCh := make(chan balancesResult, 1)
	companyCh := make(chan companyResult, 1)

	go func() {
		rows, err := a.src.Products.ListByCompany(ctx, companyID)
		productsCh <- productsResult{rows, err}
	}()
	go func() {
		rows, err := a.src.Movements.ListByCompany(ctx, companyID, nil)
		movementsCh <- movementsResult{rows, err}
	}()
	go func() {
		rows, err := a.src.Balances.ListByCompany(ctx, companyID)
		balancesCh <- balancesResult{rows, err}
	}()
	go func() {
		company, err := a.src.Companies.GetByID(ctx, companyID)
		companyCh <- companyResult{company, err}
	}()

	products := <-productsCh
	movements := <-movementsCh
	balances := <-balancesCh
	company := <-companyCh

	if products.err != nil {
		return nil, domain.NewUpstreamFetchError(SourceProducts, products.err)
	}
	if movements.err != nil {
		return nil, domain.NewUpstreamFetchError(SourceMovements, movements.err)
	}
	if balances.err != nil {
		return nil, domain.NewUpstreamFetchError(SourceBalances, balances.err)
	}
	if company.err != nil {
		return nil, domain.NewUpstreamFetchError(SourceCompany, company.err)
	}
	if company.company == nil {
		return nil, domain.NewUpstreamFetchError(SourceCompany, domain.ErrNotFound)
	}

	return &snapshots{
		products:  products.rows,
		movements: movements.rows,
		balances:  balances.rows,
		company:   company.company,
	}, nil
}

// productState acumulados de un producto activo.
type productState struct {
	product      *entity.Product
	qty          decimal.Decimal
	value        decimal.Decimal
	consumption  decimal.Decimal // salidas valorizadas dentro del período
	lastMovement time.Time
	hasMovement  bool
}

// computePayload es la parte pura del reporte: mismos snapshots y mismo período → mismo payload.
func computePayload(snap *snapshots, start, end time.Time, rules Rules) *dto.AIReportPayload {
	loc := start.Location()

	// ── Productos activos, en orden estable ──────────────────────────────────
	states := make([]*productState, 0, len(snap.products))
	byID := make(map[string]*productState, len(snap.products))
	for _, p := range snap.products {
		if p == nil || !p.Active {
			continue
		}
		st := &productState{product: p}
		states = append(states, st)
		byID[p.ID] = st
	}
	sort.Slice(states, func(i, j int) bool {
		return byDescription(states[i].product, states[j].product)
	})

	// ── Saldos (suma de todas las bodegas) ──────────────────────────────────
	for _, b := range snap.balances {
		if st, ok := byID[b.ProductID]; ok {
			st.qty = st.qty.Add(b.Quantity)
		}
	}

	// ── Movimientos: totales del período, consumo y última fecha por producto ─
	purchases, exits := decimal.Zero, decimal.Zero
	for _, m := range snap.movements {
		movedOn := dayOf(m.Date, loc)
		inPeriod := withinDays(movedOn, start, end)
		if inPeriod {
			switch m.Type {
			case entity.MovementTypeIN:
				purchases = purchases.Add(m.TotalValue)
			case entity.MovementTypeOUT:
				exits = exits.Add(m.TotalValue)
			}
		}
		st, ok := byID[m.ProductID]
		if !ok {
			continue
		}
		// Lo posterior al fin del período no cuenta para estoque parado.
		if movedOn.After(end) {
			continue
		}
		if !st.hasMovement || m.Date.After(st.lastMovement) {
			st.lastMovement = m.Date
			st.hasMovement = true
		}
		if inPeriod && m.Type == entity.MovementTypeOUT {
			st.consumption = st.consumption.Add(m.TotalValue)
		}
	}

	// ── Clasificación por producto ───────────────────────────────────────────
	inventoryValue := decimal.Zero
	var critical, excess, stale []*productState
	for _, st := range states {
		st.value = st.product.InventoryValue(st.qty)
		inventoryValue = inventoryValue.Add(st.value)

		if st.qty.LessThan(st.product.MinStock) {
			critical = append(critical, st)
		}
		if isExcess(st, rules) {
			excess = append(excess, st)
		}
		if isStale(st, end, rules.DeadStockDays) {
			stale = append(stale, st)
		}
	}

	// buildAlerts deja stale ordenado por valor; buildDeadStock reutiliza ese orden.
	alerts := buildAlerts(critical, excess, stale, end, rules)
	deadStock := buildDeadStock(stale, end)

	return &dto.AIReportPayload{
		Company: dto.ReportCompanyDTO{
			Name:   snap.company.Name,
			CNPJ:   snap.company.TaxID,
			Sector: snap.company.Sector,
		},
		Period: dto.PeriodDTO{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
		},
		KPIs: dto.ReportKPIsDTO{
			TotalItems:            len(states),
			CriticalStockItems:    len(critical),
			ExcessStockItems:      len(excess),
			DeadStockItems:        len(stale),
			CurrentInventoryValue: inventoryValue.Round(2),
			TotalPurchasesPeriod:  purchases.Round(2),
			TotalExitsPeriod:      exits.Round(2),
		},
		Alerts:    alerts,
		ABC:       buildABC(states, rules),
		DeadStock: deadStock,
		Rules: dto.ReportRulesDTO{
			MinStockMethod:   rules.MinStockMethod,
			ExcessMultiplier: rules.ExcessMultiplier,
			DeadStockDays:    rules.DeadStockDays,
		},
	}
}

// isExcess: solo aplica a productos con mínimo configurado.
func isExcess(st *productState, rules Rules) bool {
	if !st.product.MinStock.IsPositive() {
		return false
	}
	return st.qty.GreaterThan(st.product.MinStock.Mul(rules.ExcessMultiplier))
}

// isStale: sin movimiento (de cualquier tipo) en los últimos deadStockDays días respecto de ref.
func isStale(st *productState, ref time.Time, deadStockDays int) bool {
	if !st.hasMovement {
		return true
	}
	return daysBetween(st.lastMovement, ref) > deadStockDays
}

// ── Alertas ─────────────────────────────────────────────────────────────────

// buildAlerts emite RUPTURA, EXCESSO y PARADO en ese orden, cada grupo por severidad descendente.
func buildAlerts(critical, excess, stale []*productState, ref time.Time, rules Rules) []dto.ReportAlertDTO {
	alerts := make([]dto.ReportAlertDTO, 0, len(critical)+len(excess)+len(stale))

	sortBySeverity(critical, func(st *productState) decimal.Decimal {
		return st.product.MinStock.Sub(st.qty)
	})
	for _, st := range critical {
		minStock := st.product.MinStock
		alerts = append(alerts, dto.ReportAlertDTO{
			Type:         dto.AlertRuptura,
			ProductID:    st.product.ID,
			Product:      st.product.Description,
			CurrentStock: st.qty,
			MinStock:     &minStock,
			Value:        st.value.Round(2),
			Suggestion:   rupturaSuggestion(st, rules),
		})
	}

	sortBySeverity(excess, func(st *productState) decimal.Decimal { return st.value })
	for _, st := range excess {
		minStock := st.product.MinStock
		alerts = append(alerts, dto.ReportAlertDTO{
			Type:         dto.AlertExcesso,
			ProductID:    st.product.ID,
			Product:      st.product.Description,
			CurrentStock: st.qty,
			MinStock:     &minStock,
			Value:        st.value.Round(2),
			Suggestion:   excessoSuggestion(st, rules),
		})
	}

	sortBySeverity(stale, func(st *productState) decimal.Decimal { return st.value })
	for _, st := range stale {
		alerts = append(alerts, dto.ReportAlertDTO{
			Type:         dto.AlertParado,
			ProductID:    st.product.ID,
			Product:      st.product.Description,
			CurrentStock: st.qty,
			Value:        st.value.Round(2),
			Suggestion:   paradoSuggestion(st, ref),
		})
	}
	return alerts
}

// sortBySeverity ordena de mayor a menor severidad; empates por descripción e ID.
func sortBySeverity(list []*productState, severity func(*productState) decimal.Decimal) {
	sort.SliceStable(list, func(i, j int) bool {
		si, sj := severity(list[i]), severity(list[j])
		if !si.Equal(sj) {
			return si.GreaterThan(sj)
		}
		return byDescription(list[i].product, list[j].product)
	})
}

func byDescription(a, b *entity.Product) bool {
	if a.Description != b.Description {
		return a.Description < b.Description
	}
	return a.ID < b.ID
}

func countAlerts(alerts []dto.ReportAlertDTO, t dto.AlertType) int {
	n := 0
	for _, al := range alerts {
		if al.Type == t {
			n++
		}
	}
	return n
}

// ── Curva ABC ───────────────────────────────────────────────────────────────

// buildABC reparte los productos con consumo en el período según su participación acumulada.
// Los productos sin consumo no entran en ninguna curva.
func buildABC(states []*productState, rules Rules) dto.ABCCurveDTO {
	curve := dto.ABCCurveDTO{
		A: []dto.ABCItemDTO{},
		B: []dto.ABCItemDTO{},
		C: []dto.ABCItemDTO{},
	}

	consumers := make([]*productState, 0, len(states))
	total := decimal.Zero
	for _, st := range states {
		if st.consumption.IsPositive() {
			consumers = append(consumers, st)
			total = total.Add(st.consumption)
		}
	}
	if len(consumers) == 0 {
		return curve
	}
	sortBySeverity(consumers, func(st *productState) decimal.Decimal { return st.consumption })

	cumulative := decimal.Zero
	for i, st := range consumers {
		cumulative = cumulative.Add(st.consumption)
		cumulativePct := cumulative.Div(total).Mul(hundred)

		item := dto.ABCItemDTO{
			ProductID:        st.product.ID,
			Product:          st.product.Description,
			ConsumptionValue: st.consumption.Round(2),
			SharePercentage:  st.consumption.Div(total).Mul(hundred).Round(2),
			Percentage:       cumulativePct.Round(2),
		}
		switch {
		// El mayor consumidor siempre es A, aunque por sí solo supere el umbral.
		case cumulativePct.LessThanOrEqual(rules.ABCThresholdA) || i == 0:
			curve.A = append(curve.A, item)
		case cumulativePct.LessThanOrEqual(rules.ABCThresholdB):
			curve.B = append(curve.B, item)
		default:
			curve.C = append(curve.C, item)
		}
	}
	return curve
}

// ── Estoque parado ──────────────────────────────────────────────────────────

// buildDeadStock lista los productos parados que todavía tienen saldo valorizado.
// stale ya viene ordenado por valor descendente desde buildAlerts.
func buildDeadStock(stale []*productState, ref time.Time) []dto.DeadStockItemDTO {
	items := make([]dto.DeadStockItemDTO, 0, len(stale))
	for _, st := range stale {
		if !st.value.IsPositive() {
			continue
		}
		var days *int
		if st.hasMovement {
			d := daysBetween(st.lastMovement, ref)
			days = &d
		}
		items = append(items, dto.DeadStockItemDTO{
			ProductID:           st.product.ID,
			Product:             st.product.Description,
			DaysWithoutMovement: days,
			Value:               st.value.Round(2),
		})
	}
	return items
}

// ── Fechas ──────────────────────────────────────────────────────────────────

// dayOf trunca t a las 00:00 del día calendario en loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func withinDays(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

// daysBetween días calendario completos de from a to (negativo si from es posterior).
func daysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
