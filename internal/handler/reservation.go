package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// ReservationHandler serves /reservations for the authenticated caller.
// Every read is scoped to the caller's own reservations.
type ReservationHandler struct {
	Reservations ReservationService
	Loc          *time.Location
}

func NewReservationHandler(s ReservationService, loc *time.Location) *ReservationHandler {
	return &ReservationHandler{Reservations: s, Loc: loc}
}

type ticketBody struct {
	ShowSession uint64 `json:"show_session" validate:"required"`
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
}

type reservationBody struct {
	Tickets []ticketBody `json:"tickets" validate:"required,min=1,dive"`
}

type ticketSessionItem struct {
	ID                  uint64    `json:"id"`
	ShowBegin           time.Time `json:"show_begin"`
	AstronomyShowTitle  string    `json:"astronomy_show_title"`
	PlanetariumDomeName string    `json:"planetarium_dome_name"`
}

type ticketItem struct {
	ID          uint64             `json:"id"`
	Row         int                `json:"row"`
	Seat        int                `json:"seat"`
	ShowSession *ticketSessionItem `json:"show_session"`
}

type reservationItem struct {
	ID        uint64       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Tickets   []ticketItem `json:"tickets"`
}

func (h *ReservationHandler) newReservationItem(r model.Reservation) reservationItem {
	out := reservationItem{ID: r.ID, CreatedAt: r.CreatedAt.In(h.Loc), Tickets: make([]ticketItem, 0, len(r.Tickets))}
	for _, t := range r.Tickets {
		ti := ticketItem{ID: t.ID, Row: t.Row, Seat: t.Seat}
		if t.Session != nil {
			ti.ShowSession = &ticketSessionItem{
				ID:                  t.Session.ID,
				ShowBegin:           t.Session.ShowBegin.In(h.Loc),
				AstronomyShowTitle:  t.Session.ShowTitle,
				PlanetariumDomeName: t.Session.DomeName,
			}
		} else {
			ti.ShowSession = &ticketSessionItem{ID: t.ShowSessionID}
		}
		out.Tickets = append(out.Tickets, ti)
	}
	return out
}

func (h *ReservationHandler) List(c echo.Context) error {
	p := parsePage(c)
	uid := middleware.PrincipalFrom(c).UserID
	rs, total, err := h.Reservations.List(c.Request().Context(), uid, p.repo())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]reservationItem, 0, len(rs))
	for _, r := range rs {
		items = append(items, h.newReservationItem(r))
	}
	return paginated(c, p, total, items)
}

// Get returns 404 for reservations owned by somebody else.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := h.Reservations.Get(c.Request().Context(), id, middleware.PrincipalFrom(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.newReservationItem(r))
}

// Create books all tickets of the body or none of them.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body reservationBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	reqs := make([]service.TicketRequest, 0, len(body.Tickets))
	for _, t := range body.Tickets {
		reqs = append(reqs, service.TicketRequest{ShowSessionID: t.ShowSession, Row: t.Row, Seat: t.Seat})
	}
	r, err := h.Reservations.Create(c.Request().Context(), middleware.PrincipalFrom(c).UserID, reqs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, h.newReservationItem(r))
}
