package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/validation"
)

// DomeInput is the writable part of a dome: its name, description and
// seat-row layout.
type DomeInput struct {
	Name        string
	Description *string
	SeatRows    []model.SeatRow
}

func (in DomeInput) validate() error {
	return validation.ValidateSeatRows(in.SeatRows)
}

// DomeService creates and updates domes together with their seat rows.
type DomeService struct {
	db    *sql.DB
	domes *repository.DomeRepo
}

func NewDomeService(db *sql.DB, domes *repository.DomeRepo) *DomeService {
	return &DomeService{db: db, domes: domes}
}

// Create inserts the dome and every row in one transaction. An empty or
// repeated row list is rejected before anything is written.
func (s *DomeService) Create(ctx context.Context, in DomeInput) (model.Dome, error) {
	if err := in.validate(); err != nil {
		return model.Dome{}, err
	}
	d := model.Dome{Name: strings.TrimSpace(in.Name), Description: in.Description}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.domes.CreateTx(ctx, tx, &d); err != nil {
			return err
		}
		d.SeatRows = make([]model.SeatRow, 0, len(in.SeatRows))
		for _, r := range in.SeatRows {
			row := model.SeatRow{DomeID: d.ID, RowNumber: r.RowNumber, SeatsInRow: r.SeatsInRow}
			if err := s.domes.InsertRowTx(ctx, tx, &row); err != nil {
				return err
			}
			d.SeatRows = append(d.SeatRows, row)
		}
		return nil
	})
	if err != nil {
		return model.Dome{}, err
	}
	return d, nil
}

// Update sets name and description and upserts the supplied rows by row
// number: existing rows get the new seat count, unknown numbers are added.
// Stored rows missing from the list are kept.
func (s *DomeService) Update(ctx context.Context, id uint64, in DomeInput) (model.Dome, error) {
	if err := in.validate(); err != nil {
		return model.Dome{}, err
	}
	var out model.Dome
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		d, err := s.domes.LockTx(ctx, tx, id)
		if err != nil {
			return err
		}
		d.Name = strings.TrimSpace(in.Name)
		d.Description = in.Description
		if err := s.domes.UpdateTx(ctx, tx, d); err != nil {
			return err
		}

		existing, err := s.domes.RowsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		byNumber := make(map[int]model.SeatRow, len(existing))
		for _, r := range existing {
			byNumber[r.RowNumber] = r
		}
		for _, r := range in.SeatRows {
			if cur, ok := byNumber[r.RowNumber]; ok {
				if cur.SeatsInRow == r.SeatsInRow {
					continue
				}
				if r.SeatsInRow < cur.SeatsInRow {
					sold, err := s.domes.HighestSoldSeatTx(ctx, tx, id, r.RowNumber)
					if err != nil {
						return err
					}
					if sold > r.SeatsInRow {
						return apperr.Invalid("seat_rows",
							"Row %d cannot shrink to %d seats: seat %d is already sold",
							r.RowNumber, r.SeatsInRow, sold)
					}
				}
				if err := s.domes.UpdateRowSeatsTx(ctx, tx, cur.ID, r.SeatsInRow); err != nil {
					return err
				}
				continue
			}
			row := model.SeatRow{DomeID: id, RowNumber: r.RowNumber, SeatsInRow: r.SeatsInRow}
			if err := s.domes.InsertRowTx(ctx, tx, &row); err != nil {
				return err
			}
		}

		if d.SeatRows, err = s.domes.RowsTx(ctx, tx, id); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return model.Dome{}, err
	}
	return out, nil
}

func (s *DomeService) Get(ctx context.Context, id uint64) (model.Dome, error) {
	return s.domes.GetByID(ctx, id)
}

func (s *DomeService) List(ctx context.Context, p repository.Page) ([]model.Dome, int, error) {
	return s.domes.List(ctx, p)
}

// Delete removes a dome and its rows; it is refused while sessions are
// scheduled in the dome.
func (s *DomeService) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.domes.DeleteTx(ctx, tx, id)
	})
}
