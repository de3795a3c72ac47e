package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// SessionFilter narrows a session listing. Zero ids do not filter; From and
// To bound show_begin as a half-open [From, To) range when set.
type SessionFilter struct {
	ShowID uint64
	DomeID uint64
	From   *time.Time
	To     *time.Time
	Page
}

// SessionRepo persists show sessions and reads them joined with the show,
// the dome capacity and the number of tickets sold.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// summarySelect reads capacity and sold tickets in the same statement as
// the session so both come from one snapshot.
const summarySelect = `SELECT ss.id, ss.astronomy_show_id, ss.planetarium_dome_id, ss.show_begin,
	a.title, a.duration, a.image, d.name,
	(SELECT COALESCE(SUM(sr.seats_in_row), 0) FROM seat_rows sr WHERE sr.dome_id = d.id) AS capacity,
	(SELECT COUNT(*) FROM tickets t WHERE t.show_session_id = ss.id) AS sold
FROM show_sessions ss
JOIN astronomy_shows a ON a.id = ss.astronomy_show_id
JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id`

// Create inserts a session and sets s.ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.ShowSession) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO show_sessions (astronomy_show_id, planetarium_dome_id, show_begin) VALUES (?, ?, ?)`,
		s.AstronomyShowID, s.DomeID, s.ShowBegin.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update replaces show, dome and start time of an existing session.
func (r *SessionRepo) Update(ctx context.Context, s model.ShowSession) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM show_sessions WHERE id = ?`, s.ID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return notFound("show session", s.ID)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE show_sessions SET astronomy_show_id = ?, planetarium_dome_id = ?, show_begin = ? WHERE id = ?`,
		s.AstronomyShowID, s.DomeID, s.ShowBegin.UTC(), s.ID)
	return err
}

// GetSummary returns one session with its derived figures.
func (r *SessionRepo) GetSummary(ctx context.Context, id uint64) (model.SessionSummary, error) {
	s, err := scanSummary(r.db.QueryRowContext(ctx, summarySelect+` WHERE ss.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionSummary{}, notFound("show session", id)
	}
	return s, err
}

// List returns the page of sessions matching f ordered by start time, and
// the number of matches.
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]model.SessionSummary, int, error) {
	var (
		where []string
		args  []any
	)
	if f.ShowID != 0 {
		where = append(where, "ss.astronomy_show_id = ?")
		args = append(args, f.ShowID)
	}
	if f.DomeID != 0 {
		where = append(where, "ss.planetarium_dome_id = ?")
		args = append(args, f.DomeID)
	}
	if f.From != nil {
		where = append(where, "ss.show_begin >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		where = append(where, "ss.show_begin < ?")
		args = append(args, f.To.UTC())
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM show_sessions ss`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	out, err := r.querySummaries(ctx, summarySelect+cond+` ORDER BY ss.show_begin, ss.id LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FutureByShow returns up to limit sessions of showID starting at or after
// now, earliest first.
func (r *SessionRepo) FutureByShow(ctx context.Context, showID uint64, now time.Time, limit int) ([]model.SessionSummary, error) {
	return r.querySummaries(ctx,
		summarySelect+` WHERE ss.astronomy_show_id = ? AND ss.show_begin >= ? ORDER BY ss.show_begin, ss.id LIMIT ?`,
		showID, now.UTC(), limit)
}

// TakenPlaces lists the (row, seat) pairs sold for a session.
func (r *SessionRepo) TakenPlaces(ctx context.Context, sessionID uint64) ([]model.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_no, seat_no FROM tickets WHERE show_session_id = ? ORDER BY row_no, seat_no`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	places := []model.Place{}
	for rows.Next() {
		var p model.Place
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// DeleteTx removes a session. It fails with apperr.ErrConflict while any
// ticket has been sold for it.
func (r *SessionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM show_sessions WHERE id = ? FOR UPDATE`, id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return notFound("show session", id)
	}
	var sold int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE show_session_id = ?`, id).Scan(&sold); err != nil {
		return err
	}
	if sold > 0 {
		return fmt.Errorf("show session %d has %d tickets: %w", id, sold, apperr.ErrConflict)
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM show_sessions WHERE id = ?`, id)
	return err
}

func (r *SessionRepo) querySummaries(ctx context.Context, q string, args ...any) ([]model.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SessionSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (model.SessionSummary, error) {
	var (
		s   model.SessionSummary
		img sql.NullString
	)
	err := sc.Scan(&s.ID, &s.AstronomyShowID, &s.DomeID, &s.ShowBegin,
		&s.ShowTitle, &s.ShowDuration, &img, &s.DomeName, &s.DomeCapacity, &s.TicketsSold)
	if err != nil {
		return model.SessionSummary{}, err
	}
	s.ShowImage = stringPtr(img)
	s.ShowBegin = s.ShowBegin.UTC()
	return s, nil
}
