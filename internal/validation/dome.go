package validation

import (
	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ValidateSeatRows checks a seat-row layout supplied for a dome create or
// update: the list must be non-empty and row numbers may not repeat.
// Per-row bounds are checked by the request validate tags.
func ValidateSeatRows(rows []model.SeatRow) error {
	if len(rows) == 0 {
		return apperr.Invalid("seat_rows", "a dome needs at least one seat row")
	}
	seen := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.RowNumber]; dup {
			return apperr.Invalid("seat_rows", "Row %d is specified multiple times", r.RowNumber)
		}
		seen[r.RowNumber] = struct{}{}
	}
	return nil
}
