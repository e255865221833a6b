package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Textos de sugerencia en portugués: el reporte se envía a clientes en Brasil.

// rupturaSuggestion propone comprar hasta el stock ideal (mínimo * ReorderTargetFactor).
func rupturaSuggestion(st *productState, rules Rules) string {
	target := st.product.MinStock.Mul(rules.ReorderTargetFactor)
	buy := target.Sub(st.qty)
	if buy.IsNegative() {
		buy = decimal.Zero
	}
	cost := buy.Mul(st.product.Cost)
	return fmt.Sprintf(
		"Repor %s un. para atingir %s (estoque mínimo %s). Custo estimado: R$ %s",
		qtyString(buy), qtyString(target), qtyString(st.product.MinStock), cost.StringFixed(2),
	)
}

// excessoSuggestion informa el excedente sobre el techo (mínimo * ExcessMultiplier).
func excessoSuggestion(st *productState, rules Rules) string {
	ceiling := st.product.MinStock.Mul(rules.ExcessMultiplier)
	surplus := st.qty.Sub(ceiling)
	return fmt.Sprintf(
		"Excedente de %s un. acima do teto de %s (%sx o mínimo). Capital imobilizado: R$ %s. Suspender compras até normalizar.",
		qtyString(surplus), qtyString(ceiling), rules.ExcessMultiplier.String(), surplus.Mul(st.product.Cost).StringFixed(2),
	)
}

func paradoSuggestion(st *productState, ref time.Time) string {
	if !st.hasMovement {
		return "Sem movimentação registrada. Avaliar promoção, transferência ou baixa do item."
	}
	return fmt.Sprintf(
		"Sem movimentação há %d dias (última em %s). Avaliar promoção, transferência ou baixa do item.",
		daysBetween(st.lastMovement, ref), st.lastMovement.In(ref.Location()).Format("02/01/2006"),
	)
}

func qtyString(d decimal.Decimal) string {
	return d.Round(2).String()
}
