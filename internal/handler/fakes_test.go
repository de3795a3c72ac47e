package handler

import (
	"context"
	"io"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

type fakeDomes struct {
	err   error
	got   service.DomeInput
	domes []model.Dome
	total int
}

func (f *fakeDomes) Create(_ context.Context, in service.DomeInput) (model.Dome, error) {
	f.got = in
	if f.err != nil {
		return model.Dome{}, f.err
	}
	d := model.Dome{ID: 1, Name: in.Name, Description: in.Description}
	for i, r := range in.SeatRows {
		r.ID, r.DomeID = uint64(i+1), 1
		d.SeatRows = append(d.SeatRows, r)
	}
	return d, nil
}

func (f *fakeDomes) Update(ctx context.Context, _ uint64, in service.DomeInput) (model.Dome, error) {
	return f.Create(ctx, in)
}

func (f *fakeDomes) Get(_ context.Context, id uint64) (model.Dome, error) {
	for _, d := range f.domes {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Dome{}, apperr.ErrNotFound
}

func (f *fakeDomes) List(_ context.Context, _ repository.Page) ([]model.Dome, int, error) {
	return f.domes, f.total, f.err
}

type fakeThemes struct {
	themes []model.ShowTheme
	total  int
	page   repository.Page
}

func (f *fakeThemes) Create(_ context.Context, name string) (model.ShowTheme, error) {
	return model.ShowTheme{ID: 1, Name: name}, nil
}

func (f *fakeThemes) Update(_ context.Context, id uint64, name string) (model.ShowTheme, error) {
	return model.ShowTheme{ID: id, Name: name}, nil
}

func (f *fakeThemes) Get(_ context.Context, id uint64) (model.ShowTheme, error) {
	return model.ShowTheme{}, apperr.ErrNotFound
}

func (f *fakeThemes) List(_ context.Context, p repository.Page) ([]model.ShowTheme, int, error) {
	f.page = p
	return f.themes, f.total, nil
}

type fakeShows struct {
	filter    repository.ShowFilter
	shows     []model.AstronomyShow
	detail    service.ShowDetail
	deleteErr error
	uploaded  []byte
}

func (f *fakeShows) Create(_ context.Context, in service.ShowInput) (model.AstronomyShow, error) {
	return model.AstronomyShow{ID: 1, Title: in.Title, Description: in.Description, Duration: in.Duration}, nil
}

func (f *fakeShows) Update(_ context.Context, id uint64, in service.ShowInput) (model.AstronomyShow, error) {
	return model.AstronomyShow{ID: id, Title: in.Title}, nil
}

func (f *fakeShows) Detail(_ context.Context, id uint64) (service.ShowDetail, error) {
	if f.detail.ID != id {
		return service.ShowDetail{}, apperr.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeShows) List(_ context.Context, flt repository.ShowFilter) ([]model.AstronomyShow, int, error) {
	f.filter = flt
	return f.shows, len(f.shows), nil
}

func (f *fakeShows) Delete(context.Context, uint64) error { return f.deleteErr }

func (f *fakeShows) UploadImage(_ context.Context, id uint64, r io.Reader) (model.AstronomyShow, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return model.AstronomyShow{}, err
	}
	f.uploaded = b
	img := "astronomy_shows/show-1.png"
	return model.AstronomyShow{ID: id, Image: &img}, nil
}

type fakeSessions struct {
	query   service.SessionQuery
	input   service.SessionInput
	list    []model.SessionSummary
	detail  service.SessionDetail
	listErr error
}

func (f *fakeSessions) Create(_ context.Context, in service.SessionInput) (model.SessionSummary, error) {
	f.input = in
	return model.SessionSummary{ShowSession: model.ShowSession{ID: 7, AstronomyShowID: in.ShowID, DomeID: in.DomeID, ShowBegin: in.ShowBegin}}, nil
}

func (f *fakeSessions) Update(ctx context.Context, _ uint64, in service.SessionInput) (model.SessionSummary, error) {
	return f.Create(ctx, in)
}

func (f *fakeSessions) Detail(_ context.Context, id uint64) (service.SessionDetail, error) {
	if f.detail.ID != id {
		return service.SessionDetail{}, apperr.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeSessions) List(_ context.Context, q service.SessionQuery) ([]model.SessionSummary, int, error) {
	f.query = q
	return f.list, len(f.list), f.listErr
}

type fakeReservations struct {
	userID uint64
	reqs   []service.TicketRequest
	err    error
	owned  map[uint64]model.Reservation
}

func (f *fakeReservations) Create(_ context.Context, userID uint64, reqs []service.TicketRequest) (model.Reservation, error) {
	f.userID, f.reqs = userID, reqs
	if f.err != nil {
		return model.Reservation{}, f.err
	}
	r := model.Reservation{ID: 11, UserID: userID, CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	for i, q := range reqs {
		r.Tickets = append(r.Tickets, model.Ticket{ID: uint64(i + 1), ShowSessionID: q.ShowSessionID, ReservationID: 11, Row: q.Row, Seat: q.Seat})
	}
	return r, nil
}

func (f *fakeReservations) List(_ context.Context, userID uint64, _ repository.Page) ([]model.Reservation, int, error) {
	f.userID = userID
	var out []model.Reservation
	for _, r := range f.owned {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReservations) Get(_ context.Context, id, userID uint64) (model.Reservation, error) {
	r, ok := f.owned[id]
	if !ok || r.UserID != userID {
		return model.Reservation{}, apperr.ErrNotFound
	}
	return r, nil
}

type fakeUsers struct {
	byEmail map[string]model.User
	nextID  uint64
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return apperr.ErrConflict
	}
	f.nextID++
	u.ID, u.IsActive = f.nextID, true
	f.byEmail[u.Email] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, apperr.ErrNotFound
}

type fakeTokens struct {
	stored  map[string]uint64
	revoked []uint64
}

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	f.stored[hash] = userID
	return nil
}

func (f *fakeTokens) Rotate(_ context.Context, oldHash, newHash string, _ time.Time) (uint64, error) {
	uid, ok := f.stored[oldHash]
	if !ok {
		return 0, apperr.ErrUnauthorized
	}
	delete(f.stored, oldHash)
	f.stored[newHash] = uid
	return uid, nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}
