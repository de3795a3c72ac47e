package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// SessionInput is the writable part of a show session.
type SessionInput struct {
	ShowID    uint64
	DomeID    uint64
	ShowBegin time.Time
}

// SessionQuery filters a session listing. Date is a calendar day
// (YYYY-MM-DD) interpreted in the service's zone.
type SessionQuery struct {
	ShowID uint64
	DomeID uint64
	Date   string
	repository.Page
}

// SessionDetail is a session with its show, dome layout and sold places.
type SessionDetail struct {
	model.SessionSummary
	Show        model.AstronomyShow
	Dome        model.Dome
	TakenPlaces []model.Place
}

type SessionService struct {
	db       *sql.DB
	sessions *repository.SessionRepo
	shows    *repository.ShowRepo
	domes    *repository.DomeRepo
	loc      *time.Location
}

// NewSessionService builds the service; loc is the zone of the date filter.
func NewSessionService(db *sql.DB, sessions *repository.SessionRepo, shows *repository.ShowRepo,
	domes *repository.DomeRepo, loc *time.Location) *SessionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionService{db: db, sessions: sessions, shows: shows, domes: domes, loc: loc}
}

func (s *SessionService) validate(ctx context.Context, in SessionInput) error {
	if ok, err := s.shows.Exists(ctx, in.ShowID); err != nil {
		return err
	} else if !ok {
		return apperr.Invalid("astronomy_show", "Invalid pk \"%d\" - object does not exist.", in.ShowID)
	}
	if ok, err := s.domes.Exists(ctx, in.DomeID); err != nil {
		return err
	} else if !ok {
		return apperr.Invalid("planetarium_dome", "Invalid pk \"%d\" - object does not exist.", in.DomeID)
	}
	return nil
}

func (s *SessionService) Create(ctx context.Context, in SessionInput) (model.SessionSummary, error) {
	if err := s.validate(ctx, in); err != nil {
		return model.SessionSummary{}, err
	}
	ss := model.ShowSession{AstronomyShowID: in.ShowID, DomeID: in.DomeID, ShowBegin: in.ShowBegin}
	if err := s.sessions.Create(ctx, &ss); err != nil {
		return model.SessionSummary{}, err
	}
	return s.sessions.GetSummary(ctx, ss.ID)
}

func (s *SessionService) Update(ctx context.Context, id uint64, in SessionInput) (model.SessionSummary, error) {
	if err := s.validate(ctx, in); err != nil {
		return model.SessionSummary{}, err
	}
	ss := model.ShowSession{ID: id, AstronomyShowID: in.ShowID, DomeID: in.DomeID, ShowBegin: in.ShowBegin}
	if err := s.sessions.Update(ctx, ss); err != nil {
		return model.SessionSummary{}, err
	}
	return s.sessions.GetSummary(ctx, id)
}

// Detail loads the session with its show, its dome (rows included) and the
// places already sold.
func (s *SessionService) Detail(ctx context.Context, id uint64) (SessionDetail, error) {
	sum, err := s.sessions.GetSummary(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	show, err := s.shows.GetByID(ctx, sum.AstronomyShowID)
	if err != nil {
		return SessionDetail{}, err
	}
	dome, err := s.domes.GetByID(ctx, sum.DomeID)
	if err != nil {
		return SessionDetail{}, err
	}
	taken, err := s.sessions.TakenPlaces(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	return SessionDetail{SessionSummary: sum, Show: show, Dome: dome, TakenPlaces: taken}, nil
}

func (s *SessionService) List(ctx context.Context, q SessionQuery) ([]model.SessionSummary, int, error) {
	f := repository.SessionFilter{ShowID: q.ShowID, DomeID: q.DomeID, Page: q.Page}
	if d := strings.TrimSpace(q.Date); d != "" {
		from, to, err := DayRange(d, s.loc)
		if err != nil {
			return nil, 0, err
		}
		f.From, f.To = &from, &to
	}
	return s.sessions.List(ctx, f)
}

// Delete is refused with apperr.ErrConflict once tickets have been sold.
func (s *SessionService) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.sessions.DeleteTx(ctx, tx, id)
	})
}

// DayRange turns a YYYY-MM-DD date into the UTC instants [start, end)
// that make up that calendar day in loc. Days of a DST switch are 23 or 25
// hours long.
func DayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}
