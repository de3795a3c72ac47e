// Package queue carries domain events over RabbitMQ: the publisher used
// after a reservation commits and the background consumer that records
// those events.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ReservationCreatedQueue is the durable queue (and default-exchange routing
// key) for ReservationCreatedEvent.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedEvent is published once a reservation and all of its
// tickets have been committed.
type ReservationCreatedEvent struct {
	ReservationID uint64        `json:"reservation_id"`
	UserID        uint64        `json:"user_id"`
	CreatedAt     time.Time     `json:"created_at"`
	Tickets       []EventTicket `json:"tickets"`
}

// EventTicket is one booked place of the event.
type EventTicket struct {
	ShowSessionID uint64 `json:"show_session_id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// NewReservationCreated builds the event for a committed reservation.
func NewReservationCreated(r model.Reservation) ReservationCreatedEvent {
	ev := ReservationCreatedEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		CreatedAt:     r.CreatedAt.UTC(),
		Tickets:       make([]EventTicket, 0, len(r.Tickets)),
	}
	for _, t := range r.Tickets {
		ev.Tickets = append(ev.Tickets, EventTicket{ShowSessionID: t.ShowSessionID, Row: t.Row, Seat: t.Seat})
	}
	return ev
}

// LogLine renders the event as one line of reservations.log.
func (ev ReservationCreatedEvent) LogLine() string {
	places := make([]string, len(ev.Tickets))
	for i, t := range ev.Tickets {
		places[i] = fmt.Sprintf("s%d:r%d:%d", t.ShowSessionID, t.Row, t.Seat)
	}
	return fmt.Sprintf("[%s] Reservation created | reservation_id=%d | user_id=%d | tickets=%d | places=[%s]\n",
		ev.CreatedAt.UTC().Format(time.RFC3339), ev.ReservationID, ev.UserID, len(ev.Tickets), strings.Join(places, ","))
}
