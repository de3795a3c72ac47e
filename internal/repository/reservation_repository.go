package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ReservationRepo persists reservations and reads them back with their
// tickets. Reservations are never updated or deleted.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a reservation for res.UserID inside tx and fills in the
// generated id and the database-assigned created_at.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, res.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt); err != nil {
		return err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return nil
}

// ListByUser returns one page of the user's reservations, newest first,
// each with its tickets, and the user's total reservation count.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, p Page) ([]model.Reservation, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, created_at FROM reservations WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0, p.Limit)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.CreatedAt); err != nil {
			return nil, 0, err
		}
		res.CreatedAt = res.CreatedAt.UTC()
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachTickets(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByIDForUser returns a reservation owned by userID. Reservations of
// other users are reported as not found.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	var res model.Reservation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM reservations WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&res.ID, &res.UserID, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, notFound("reservation", id)
	}
	if err != nil {
		return model.Reservation{}, err
	}
	res.CreatedAt = res.CreatedAt.UTC()
	list := []model.Reservation{res}
	if err := r.attachTickets(ctx, list); err != nil {
		return model.Reservation{}, err
	}
	return list[0], nil
}

func (r *ReservationRepo) attachTickets(ctx context.Context, list []model.Reservation) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(list))
	ids := make([]uint64, len(list))
	for i, res := range list {
		index[res.ID] = i
		ids[i] = res.ID
		list[i].Tickets = []model.Ticket{}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.reservation_id, t.show_session_id, t.row_no, t.seat_no,
		        ss.show_begin, a.title, d.name
		 FROM tickets t
		 JOIN show_sessions ss ON ss.id = t.show_session_id
		 JOIN astronomy_shows a ON a.id = ss.astronomy_show_id
		 JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
		 WHERE t.reservation_id IN (`+placeholders(len(ids))+`)
		 ORDER BY t.id`,
		idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t  model.Ticket
			ts model.TicketSession
		)
		if err := rows.Scan(&t.ID, &t.ReservationID, &t.ShowSessionID, &t.Row, &t.Seat,
			&ts.ShowBegin, &ts.ShowTitle, &ts.DomeName); err != nil {
			return err
		}
		ts.ID = t.ShowSessionID
		ts.ShowBegin = ts.ShowBegin.UTC()
		t.Session = &ts
		if i, ok := index[t.ReservationID]; ok {
			list[i].Tickets = append(list[i].Tickets, t)
		}
	}
	return rows.Err()
}
