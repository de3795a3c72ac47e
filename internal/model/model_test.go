package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomeCapacity(t *testing.T) {
	d := Dome{}
	assert.Equal(t, 0, d.Capacity())

	d.SeatRows = []SeatRow{{RowNumber: 1, SeatsInRow: 5}, {RowNumber: 2, SeatsInRow: 7}}
	assert.Equal(t, 12, d.Capacity())

	// edits to the row set are reflected on the next call
	d.SeatRows[1].SeatsInRow = 10
	d.SeatRows = append(d.SeatRows, SeatRow{RowNumber: 3, SeatsInRow: 1})
	assert.Equal(t, 16, d.Capacity())
}

func TestDomeRow(t *testing.T) {
	d := Dome{SeatRows: []SeatRow{{RowNumber: 0, SeatsInRow: 3}, {RowNumber: 4, SeatsInRow: 9}}}

	r, ok := d.Row(4)
	assert.True(t, ok)
	assert.Equal(t, 9, r.SeatsInRow)

	_, ok = d.Row(2)
	assert.False(t, ok)
}

func TestSessionSummary(t *testing.T) {
	begin := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	s := SessionSummary{
		ShowSession:  ShowSession{ShowBegin: begin},
		ShowDuration: 90,
		DomeCapacity: 20,
		TicketsSold:  3,
	}
	assert.Equal(t, begin.Add(90*time.Minute), s.ShowEnd())
	assert.Equal(t, 17, s.AvailableSeats())

	s.TicketsSold = 20
	assert.Equal(t, 0, s.AvailableSeats())
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, User{IsStaff: true}.Role())
	assert.Equal(t, RoleUser, User{}.Role())
}
