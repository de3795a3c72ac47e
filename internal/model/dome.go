package model

// Dome is a planetarium venue. Its seating is described by an ordered set
// of SeatRows; a dome has no seat grid of its own.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the dome.
//  Description – optional free text (nil when unset).
//  SeatRows    – rows owned by the dome, ordered by row number.
type Dome struct {
	ID          uint64    // planetarium_domes.id
	Name        string    // planetarium_domes.name
	Description *string   // planetarium_domes.description (nullable)
	SeatRows    []SeatRow // seat_rows where dome_id = id
}

// SeatRow is a numbered row inside a dome holding SeatsInRow seats,
// numbered 1..SeatsInRow. Row numbers are unique within a dome.
type SeatRow struct {
	ID         uint64 // seat_rows.id
	DomeID     uint64 // seat_rows.dome_id
	RowNumber  int    // seat_rows.row_no
	SeatsInRow int    // seat_rows.seats_in_row
}

// Capacity is the total number of seats in the dome: the sum of
// SeatsInRow over its rows. It is derived from the currently loaded rows
// and never cached.
func (d Dome) Capacity() int {
	total := 0
	for _, r := range d.SeatRows {
		total += r.SeatsInRow
	}
	return total
}

// Row returns the row numbered n, if the dome has one.
func (d Dome) Row(n int) (SeatRow, bool) {
	for _, r := range d.SeatRows {
		if r.RowNumber == n {
			return r, true
		}
	}
	return SeatRow{}, false
}
