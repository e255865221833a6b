package report

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/domain"
)

// ParsePeriod convierte los strings de fecha (YYYY-MM-DD) en time.Time; aplica valores por defecto si están vacíos.
// No valida el orden: BuildReportPayload responde ErrInvalidRange si el inicio es posterior al fin.
func ParsePeriod(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	loc := now.Location()

	if endStr == "" {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido: %v", domain.ErrInvalidInput, err)
		}
	}

	if startStr == "" {
		// Primer día del mes de end
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido: %v", domain.ErrInvalidInput, err)
		}
	}
	return start, end, nil
}
