package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// SessionHandler serves /show_sessions. Loc is the zone naive show_begin
// values are read in and timestamps are rendered in.
type SessionHandler struct {
	Sessions SessionService
	Loc      *time.Location
}

func NewSessionHandler(s SessionService, loc *time.Location) *SessionHandler {
	return &SessionHandler{Sessions: s, Loc: loc}
}

type sessionBody struct {
	AstronomyShow   uint64 `json:"astronomy_show" validate:"required"`
	PlanetariumDome uint64 `json:"planetarium_dome" validate:"required"`
	ShowBegin       string `json:"show_begin" validate:"required"`
}

type sessionItem struct {
	ID                      uint64    `json:"id"`
	ShowBegin               time.Time `json:"show_begin"`
	ShowEnd                 time.Time `json:"show_end"`
	AstronomyShowTitle      string    `json:"astronomy_show_title"`
	ShowImage               *string   `json:"show_image"`
	PlanetariumDomeName     string    `json:"planetarium_dome_name"`
	PlanetariumDomeCapacity int       `json:"planetarium_dome_capacity"`
	TicketsAvailable        int       `json:"tickets_available"`
}

type sessionWritten struct {
	ID              uint64    `json:"id"`
	AstronomyShow   uint64    `json:"astronomy_show"`
	PlanetariumDome uint64    `json:"planetarium_dome"`
	ShowBegin       time.Time `json:"show_begin"`
}

type placeItem struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type sessionDetail struct {
	ID               uint64      `json:"id"`
	ShowBegin        time.Time   `json:"show_begin"`
	ShowEnd          time.Time   `json:"show_end"`
	AstronomyShow    showItem    `json:"astronomy_show"`
	PlanetariumDome  domeDetail  `json:"planetarium_dome"`
	TicketsAvailable int         `json:"tickets_available"`
	TakenPlaces      []placeItem `json:"taken_places"`
}

func (h *SessionHandler) newSessionItem(c echo.Context, s model.SessionSummary) sessionItem {
	return sessionItem{
		ID:                      s.ID,
		ShowBegin:               s.ShowBegin.In(h.Loc),
		ShowEnd:                 s.ShowEnd().In(h.Loc),
		AstronomyShowTitle:      s.ShowTitle,
		ShowImage:               mediaURL(c, s.ShowImage),
		PlanetariumDomeName:     s.DomeName,
		PlanetariumDomeCapacity: s.DomeCapacity,
		TicketsAvailable:        s.AvailableSeats(),
	}
}

func (h *SessionHandler) newSessionWritten(s model.SessionSummary) sessionWritten {
	return sessionWritten{ID: s.ID, AstronomyShow: s.AstronomyShowID, PlanetariumDome: s.DomeID, ShowBegin: s.ShowBegin.In(h.Loc)}
}

func (h *SessionHandler) input(b sessionBody) (service.SessionInput, error) {
	begin, err := parseBegin(b.ShowBegin, h.Loc)
	if err != nil {
		return service.SessionInput{}, err
	}
	return service.SessionInput{ShowID: b.AstronomyShow, DomeID: b.PlanetariumDome, ShowBegin: begin}, nil
}

// List supports ?astronomy_show=, ?planetarium_dome= and ?date=YYYY-MM-DD.
func (h *SessionHandler) List(c echo.Context) error {
	showID, err := queryID(c, "astronomy_show")
	if err != nil {
		return respondError(c, err)
	}
	domeID, err := queryID(c, "planetarium_dome")
	if err != nil {
		return respondError(c, err)
	}
	p := parsePage(c)
	sessions, total, err := h.Sessions.List(c.Request().Context(), service.SessionQuery{
		ShowID: showID, DomeID: domeID, Date: c.QueryParam("date"), Page: p.repo(),
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]sessionItem, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, h.newSessionItem(c, s))
	}
	return paginated(c, p, total, items)
}

func (h *SessionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Sessions.Detail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := sessionDetail{
		ID:               d.ID,
		ShowBegin:        d.ShowBegin.In(h.Loc),
		ShowEnd:          d.ShowEnd().In(h.Loc),
		AstronomyShow:    newShowItem(c, d.Show),
		PlanetariumDome:  newDomeDetail(d.Dome),
		TicketsAvailable: d.AvailableSeats(),
		TakenPlaces:      make([]placeItem, 0, len(d.TakenPlaces)),
	}
	for _, p := range d.TakenPlaces {
		out.TakenPlaces = append(out.TakenPlaces, placeItem{Row: p.Row, Seat: p.Seat})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) Create(c echo.Context) error {
	var body sessionBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	in, err := h.input(body)
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.Sessions.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, h.newSessionWritten(s))
}

func (h *SessionHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var body sessionBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	in, err := h.input(body)
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.Sessions.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.newSessionWritten(s))
}
