package model

import "time"

// Reservation is a user's booking. It is created together with all of its
// tickets in one transaction and is immutable afterwards.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  CreatedAt – set by the database when the row is inserted.
//  Tickets   – seats booked under this reservation.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	CreatedAt time.Time // reservations.created_at
	Tickets   []Ticket
}

// Ticket is one (row, seat) place for one show session. The triple
// (ShowSessionID, Row, Seat) is unique across all reservations.
type Ticket struct {
	ID            uint64 // tickets.id
	ShowSessionID uint64 // tickets.show_session_id
	ReservationID uint64 // tickets.reservation_id
	Row           int    // tickets.row_no
	Seat          int    // tickets.seat_no
	// Session is populated on reads that join session details.
	Session *TicketSession
}

// TicketSession is the slice of session data shown next to a ticket.
type TicketSession struct {
	ID        uint64
	ShowBegin time.Time
	ShowTitle string
	DomeName  string
}

// Place is an occupied (row, seat) pair of a session.
type Place struct {
	Row  int
	Seat int
}
