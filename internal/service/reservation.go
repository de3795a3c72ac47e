package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/metrics"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/queue"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/validation"
)

// TicketRequest asks for one place of one session.
type TicketRequest struct {
	ShowSessionID uint64
	Row           int
	Seat          int
}

// EventPublisher receives committed reservations.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

const publishTimeout = 5 * time.Second

type ReservationService struct {
	db           *sql.DB
	reservations *repository.ReservationRepo
	tickets      *repository.TicketRepo
	events       EventPublisher
	log          *zap.Logger
}

// NewReservationService builds the service. events may be nil.
func NewReservationService(db *sql.DB, reservations *repository.ReservationRepo, tickets *repository.TicketRepo,
	events EventPublisher, log *zap.Logger) *ReservationService {
	return &ReservationService{db: db, reservations: reservations, tickets: tickets, events: events, log: log}
}

// Create books every requested place for userID or none of them. Each
// ticket is checked against its session's dome before the insert, and the
// insert itself re-checks the seat and relies on the unique index, so two
// buyers racing for a place cannot both win: the loser gets
// apperr.ErrConflict and its whole reservation is rolled back.
func (s *ReservationService) Create(ctx context.Context, userID uint64, reqs []TicketRequest) (model.Reservation, error) {
	if len(reqs) == 0 {
		return model.Reservation{}, apperr.Invalid("tickets", "a reservation needs at least one ticket")
	}
	type place struct {
		session   uint64
		row, seat int
	}
	seen := make(map[place]bool, len(reqs))
	for _, r := range reqs {
		p := place{r.ShowSessionID, r.Row, r.Seat}
		if seen[p] {
			return model.Reservation{}, apperr.Invalid("tickets",
				"row %d seat %d of show session %d is requested more than once", r.Row, r.Seat, r.ShowSessionID)
		}
		seen[p] = true
	}

	res := model.Reservation{UserID: userID}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.reservations.CreateTx(ctx, tx, &res); err != nil {
			return err
		}
		domes := map[uint64]model.Dome{}
		res.Tickets = make([]model.Ticket, 0, len(reqs))
		for _, r := range reqs {
			dome, ok := domes[r.ShowSessionID]
			if !ok {
				d, err := s.tickets.SessionDomeTx(ctx, tx, r.ShowSessionID)
				if err != nil {
					return err
				}
				dome, domes[r.ShowSessionID] = d, d
			}
			if err := validation.ValidateSeat(r.Row, r.Seat, dome); err != nil {
				return err
			}
			t := model.Ticket{ShowSessionID: r.ShowSessionID, ReservationID: res.ID, Row: r.Row, Seat: r.Seat}
			if err := s.tickets.InsertTx(ctx, tx, &t); err != nil {
				return err
			}
			res.Tickets = append(res.Tickets, t)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.ReservationConflicts.Inc()
		}
		return model.Reservation{}, err
	}

	metrics.ReservationsCreated.Inc()
	metrics.TicketsCreated.Add(float64(len(res.Tickets)))
	s.publish(ctx, res)
	return res, nil
}

// publish emits reservation.created. The reservation is already committed,
// so failures are only logged.
func (s *ReservationService) publish(ctx context.Context, res model.Reservation) {
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.PublishReservationCreated(pctx, queue.NewReservationCreated(res)); err != nil {
		s.log.Warn("reservation event not published", zap.Uint64("reservation_id", res.ID), zap.Error(err))
	}
}

// List returns the user's own reservations, newest first.
func (s *ReservationService) List(ctx context.Context, userID uint64, p repository.Page) ([]model.Reservation, int, error) {
	return s.reservations.ListByUser(ctx, userID, p)
}

// Get returns a reservation only when userID owns it.
func (s *ReservationService) Get(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	return s.reservations.GetByIDForUser(ctx, id, userID)
}
