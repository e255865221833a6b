// Package render convierte el AIReportPayload en correo HTML y en PDF.
package render

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formato pt-BR: 1.234,56
var printer = message.NewPrinter(language.BrazilianPortuguese)

func money(d decimal.Decimal) string {
	return "R$ " + amount(d, 2)
}

func quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return amount(d, 0)
	}
	return amount(d, 2)
}

func percent(d decimal.Decimal) string {
	return amount(d, 2) + "%"
}

func amount(d decimal.Decimal, scale int) string {
	return printer.Sprint(number.Decimal(d.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// brDate convierte YYYY-MM-DD a dd/mm/aaaa; si no parsea, lo deja igual.
func brDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func daysLabel(days *int) string {
	if days == nil {
		return "nunca movimentado"
	}
	return printer.Sprintf("%d dias", *days)
}

func subjectFor(companyName, start, end string) string {
	return "Relatório de estoque - " + companyName + " (" + brDate(start) + " a " + brDate(end) + ")"
}
