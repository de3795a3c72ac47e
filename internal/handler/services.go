package handler

import (
	"context"
	"io"

	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// The interfaces below are what the handlers need from the service layer;
// the *service types satisfy them.

type DomeService interface {
	Create(ctx context.Context, in service.DomeInput) (model.Dome, error)
	Update(ctx context.Context, id uint64, in service.DomeInput) (model.Dome, error)
	Get(ctx context.Context, id uint64) (model.Dome, error)
	List(ctx context.Context, p repository.Page) ([]model.Dome, int, error)
}

type ThemeService interface {
	Create(ctx context.Context, name string) (model.ShowTheme, error)
	Update(ctx context.Context, id uint64, name string) (model.ShowTheme, error)
	Get(ctx context.Context, id uint64) (model.ShowTheme, error)
	List(ctx context.Context, p repository.Page) ([]model.ShowTheme, int, error)
}

type ShowService interface {
	Create(ctx context.Context, in service.ShowInput) (model.AstronomyShow, error)
	Update(ctx context.Context, id uint64, in service.ShowInput) (model.AstronomyShow, error)
	Detail(ctx context.Context, id uint64) (service.ShowDetail, error)
	List(ctx context.Context, f repository.ShowFilter) ([]model.AstronomyShow, int, error)
	Delete(ctx context.Context, id uint64) error
	UploadImage(ctx context.Context, id uint64, r io.Reader) (model.AstronomyShow, error)
}

type SessionService interface {
	Create(ctx context.Context, in service.SessionInput) (model.SessionSummary, error)
	Update(ctx context.Context, id uint64, in service.SessionInput) (model.SessionSummary, error)
	Detail(ctx context.Context, id uint64) (service.SessionDetail, error)
	List(ctx context.Context, q service.SessionQuery) ([]model.SessionSummary, int, error)
}

type ReservationService interface {
	Create(ctx context.Context, userID uint64, reqs []service.TicketRequest) (model.Reservation, error)
	List(ctx context.Context, userID uint64, p repository.Page) ([]model.Reservation, int, error)
	Get(ctx context.Context, id, userID uint64) (model.Reservation, error)
}
