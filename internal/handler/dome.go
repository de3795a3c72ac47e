package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// DomeHandler serves /planetarium_domes.
type DomeHandler struct {
	Domes DomeService
}

func NewDomeHandler(s DomeService) *DomeHandler { return &DomeHandler{Domes: s} }

type seatRowBody struct {
	RowNumber  int `json:"row_number" validate:"gte=0"`
	SeatsInRow int `json:"seats_in_row" validate:"min=1"`
}

type domeBody struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Description *string       `json:"description"`
	SeatRows    []seatRowBody `json:"seat_rows" validate:"required,min=1,dive"`
}

func (b *domeBody) normalize() { b.Name = strings.TrimSpace(b.Name) }

func (b domeBody) input() service.DomeInput {
	in := service.DomeInput{Name: b.Name, Description: b.Description}
	for _, r := range b.SeatRows {
		in.SeatRows = append(in.SeatRows, model.SeatRow{RowNumber: r.RowNumber, SeatsInRow: r.SeatsInRow})
	}
	return in
}

type seatRowItem struct {
	ID         uint64 `json:"id"`
	RowNumber  int    `json:"row_number"`
	SeatsInRow int    `json:"seats_in_row"`
}

type domeItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity"`
}

type domeDetail struct {
	domeItem
	SeatRows []seatRowItem `json:"seat_rows"`
}

func newDomeItem(d model.Dome) domeItem {
	return domeItem{ID: d.ID, Name: d.Name, Description: d.Description, Capacity: d.Capacity()}
}

func newDomeDetail(d model.Dome) domeDetail {
	out := domeDetail{domeItem: newDomeItem(d), SeatRows: make([]seatRowItem, 0, len(d.SeatRows))}
	for _, r := range d.SeatRows {
		out.SeatRows = append(out.SeatRows, seatRowItem{ID: r.ID, RowNumber: r.RowNumber, SeatsInRow: r.SeatsInRow})
	}
	return out
}

func (h *DomeHandler) List(c echo.Context) error {
	p := parsePage(c)
	domes, total, err := h.Domes.List(c.Request().Context(), p.repo())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]domeItem, 0, len(domes))
	for _, d := range domes {
		items = append(items, newDomeItem(d))
	}
	return paginated(c, p, total, items)
}

func (h *DomeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Domes.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newDomeDetail(d))
}

func (h *DomeHandler) Create(c echo.Context) error {
	var body domeBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	d, err := h.Domes.Create(c.Request().Context(), body.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newDomeDetail(d))
}

func (h *DomeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var body domeBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	d, err := h.Domes.Update(c.Request().Context(), id, body.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newDomeDetail(d))
}
