// Package validation holds the pure business rules applied on every write
// path before anything is persisted. Functions return *apperr.ValidationError
// (or a wrapped apperr.ErrNotFound) and never touch storage.
package validation

import (
	"fmt"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ValidateSeat checks that (rowNumber, seatNumber) names a real place in
// dome. The row must exist on the dome, otherwise the error wraps
// apperr.ErrNotFound; the seat must lie in [1, seats_in_row].
func ValidateSeat(rowNumber, seatNumber int, dome model.Dome) error {
	row, ok := dome.Row(rowNumber)
	if !ok {
		return fmt.Errorf("row %d in dome %d: %w", rowNumber, dome.ID, apperr.ErrNotFound)
	}
	if seatNumber < 1 || seatNumber > row.SeatsInRow {
		return apperr.Invalid("seat", "seat must be in range [1, %d], not %d", row.SeatsInRow, seatNumber)
	}
	return nil
}
