package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/validation"
)

// TicketRepo inserts tickets. Every insert re-validates the seat against
// the session's dome inside the same transaction, and the unique index on
// (show_session_id, row_no, seat_no) arbitrates concurrent buyers.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// SessionDomeTx resolves a show session to its dome with seat rows loaded.
// The dome row is share-locked so a layout update waits for the booking.
func (r *TicketRepo) SessionDomeTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (model.Dome, error) {
	var d model.Dome
	err := tx.QueryRowContext(ctx,
		`SELECT d.id, d.name FROM show_sessions ss
		 JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
		 WHERE ss.id = ? LOCK IN SHARE MODE`, sessionID).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dome{}, notFound("show session", sessionID)
	}
	if err != nil {
		return model.Dome{}, err
	}
	if d.SeatRows, err = loadRows(ctx, tx, d.ID); err != nil {
		return model.Dome{}, err
	}
	return d, nil
}

// InsertTx validates and inserts t inside tx and sets t.ID. An
// out-of-range seat fails with a validation error, an unknown row with
// apperr.ErrNotFound and an already sold seat with apperr.ErrConflict.
func (r *TicketRepo) InsertTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	dome, err := r.SessionDomeTx(ctx, tx, t.ShowSessionID)
	if err != nil {
		return err
	}
	if err := validation.ValidateSeat(t.Row, t.Seat, dome); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (show_session_id, reservation_id, row_no, seat_no) VALUES (?, ?, ?, ?)`,
		t.ShowSessionID, t.ReservationID, t.Row, t.Seat)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("row %d seat %d of show session %d already taken: %w",
				t.Row, t.Seat, t.ShowSessionID, apperr.ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

