package usecase

import (
	"fmt"
	"time"

	"github.com/abastoflow/abastoflow/internal/domain"
)

const dateLayout = "2006-01-02"

// parseRange convierte YYYY-MM-DD en [from, to). Vacío = sin límite; el día final es inclusivo.
func parseRange(startStr, endStr string) (from, to time.Time, err error) {
	loc := time.Now().Location()
	if startStr != "" {
		from, err = time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %w", domain.ErrInvalidInput)
		}
	}
	if endStr != "" {
		to, err = time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %w", domain.ErrInvalidInput)
		}
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date posterior a end_date: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}
