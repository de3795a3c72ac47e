package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// DomeRepo persists planetarium domes and their seat rows.
type DomeRepo struct {
	db *sql.DB
}

func NewDomeRepo(db *sql.DB) *DomeRepo { return &DomeRepo{db: db} }

// CreateTx inserts the dome row and sets d.ID. Seat rows are inserted
// separately with InsertRowTx.
func (r *DomeRepo) CreateTx(ctx context.Context, tx *sql.Tx, d *model.Dome) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO planetarium_domes (name, description) VALUES (?, ?)`,
		d.Name, nullString(d.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// InsertRowTx attaches a new seat row to a dome and sets row.ID. A row
// number already present on the dome yields apperr.ErrConflict.
func (r *DomeRepo) InsertRowTx(ctx context.Context, tx *sql.Tx, row *model.SeatRow) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO seat_rows (dome_id, row_no, seats_in_row) VALUES (?, ?, ?)`,
		row.DomeID, row.RowNumber, row.SeatsInRow)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("row %d of dome %d: %w", row.RowNumber, row.DomeID, apperr.ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	row.ID = uint64(id)
	return nil
}

// LockTx reads the dome row with SELECT ... FOR UPDATE so concurrent
// layout updates of the same dome are serialized. Seat rows are not loaded.
func (r *DomeRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Dome, error) {
	var (
		d    model.Dome
		desc sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, description FROM planetarium_domes WHERE id = ? FOR UPDATE`, id).
		Scan(&d.ID, &d.Name, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dome{}, notFound("dome", id)
	}
	if err != nil {
		return model.Dome{}, err
	}
	d.Description = stringPtr(desc)
	return d, nil
}

// RowsTx returns the dome's seat rows ordered by row number.
func (r *DomeRepo) RowsTx(ctx context.Context, tx *sql.Tx, domeID uint64) ([]model.SeatRow, error) {
	return loadRows(ctx, tx, domeID)
}

// HighestSoldSeatTx returns the highest seat number sold in a row of the
// dome across all its show sessions, or 0 when none is sold. The read
// locks the matching tickets so they cannot change until tx ends.
func (r *DomeRepo) HighestSoldSeatTx(ctx context.Context, tx *sql.Tx, domeID uint64, rowNumber int) (int, error) {
	var seat int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(t.seat_no), 0) FROM tickets t
		 JOIN show_sessions ss ON ss.id = t.show_session_id
		 WHERE ss.planetarium_dome_id = ? AND t.row_no = ? LOCK IN SHARE MODE`,
		domeID, rowNumber).Scan(&seat)
	return seat, err
}

// UpdateRowSeatsTx changes the seat count of an existing row.
func (r *DomeRepo) UpdateRowSeatsTx(ctx context.Context, tx *sql.Tx, rowID uint64, seats int) error {
	_, err := tx.ExecContext(ctx, `UPDATE seat_rows SET seats_in_row = ? WHERE id = ?`, seats, rowID)
	return err
}

// UpdateTx sets name and description.
func (r *DomeRepo) UpdateTx(ctx context.Context, tx *sql.Tx, d model.Dome) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE planetarium_domes SET name = ?, description = ? WHERE id = ?`,
		d.Name, nullString(d.Description), d.ID)
	return err
}

// GetByID returns the dome together with its seat rows.
func (r *DomeRepo) GetByID(ctx context.Context, id uint64) (model.Dome, error) {
	var (
		d    model.Dome
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM planetarium_domes WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dome{}, notFound("dome", id)
	}
	if err != nil {
		return model.Dome{}, err
	}
	d.Description = stringPtr(desc)
	if d.SeatRows, err = loadRows(ctx, r.db, id); err != nil {
		return model.Dome{}, err
	}
	return d, nil
}

// Exists reports whether a dome with id is stored.
func (r *DomeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planetarium_domes WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// List returns one page of domes ordered by id, each with its rows, and the
// total number of domes.
func (r *DomeRepo) List(ctx context.Context, p Page) ([]model.Dome, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planetarium_domes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM planetarium_domes ORDER BY id LIMIT ? OFFSET ?`,
		p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	domes := make([]model.Dome, 0, p.Limit)
	index := map[uint64]int{}
	for rows.Next() {
		var (
			d    model.Dome
			desc sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Name, &desc); err != nil {
			return nil, 0, err
		}
		d.Description = stringPtr(desc)
		index[d.ID] = len(domes)
		domes = append(domes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(domes) == 0 {
		return domes, total, nil
	}

	ids := make([]uint64, len(domes))
	for i, d := range domes {
		ids[i] = d.ID
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT id, dome_id, row_no, seats_in_row FROM seat_rows WHERE dome_id IN (`+placeholders(len(ids))+`) ORDER BY dome_id, row_no`,
		idArgs(ids)...)
	if err != nil {
		return nil, 0, err
	}
	defer srows.Close()
	for srows.Next() {
		var sr model.SeatRow
		if err := srows.Scan(&sr.ID, &sr.DomeID, &sr.RowNumber, &sr.SeatsInRow); err != nil {
			return nil, 0, err
		}
		if i, ok := index[sr.DomeID]; ok {
			domes[i].SeatRows = append(domes[i].SeatRows, sr)
		}
	}
	return domes, total, srows.Err()
}

// DeleteTx removes a dome and its seat rows. It fails with
// apperr.ErrConflict while any show session is scheduled in the dome.
func (r *DomeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, err := r.LockTx(ctx, tx, id); err != nil {
		return err
	}
	var sessions int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM show_sessions WHERE planetarium_dome_id = ?`, id).Scan(&sessions); err != nil {
		return err
	}
	if sessions > 0 {
		return fmt.Errorf("dome %d has %d show sessions: %w", id, sessions, apperr.ErrConflict)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_rows WHERE dome_id = ?`, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM planetarium_domes WHERE id = ?`, id)
	return err
}

func loadRows(ctx context.Context, q querier, domeID uint64) ([]model.SeatRow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, dome_id, row_no, seats_in_row FROM seat_rows WHERE dome_id = ? ORDER BY row_no`, domeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatRow
	for rows.Next() {
		var sr model.SeatRow
		if err := rows.Scan(&sr.ID, &sr.DomeID, &sr.RowNumber, &sr.SeatsInRow); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
