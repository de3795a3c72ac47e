package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// ShowHandler serves /astronomy_shows. Loc is the zone timestamps are
// rendered in.
type ShowHandler struct {
	Shows ShowService
	Loc   *time.Location
}

func NewShowHandler(s ShowService, loc *time.Location) *ShowHandler {
	return &ShowHandler{Shows: s, Loc: loc}
}

type showBody struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Duration    int      `json:"duration" validate:"required,min=1"`
	ShowTheme   []uint64 `json:"show_theme" validate:"dive,gt=0"`
}

func (b *showBody) normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
}

func (b showBody) input() service.ShowInput {
	return service.ShowInput{Title: b.Title, Description: b.Description, Duration: b.Duration, ThemeIDs: b.ShowTheme}
}

type showItem struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	ShowTheme   []string `json:"show_theme"`
	Image       *string  `json:"image"`
}

type futureSessionItem struct {
	ID                  uint64    `json:"id"`
	ShowBegin           time.Time `json:"show_begin"`
	PlanetariumDomeName string    `json:"planetarium_dome_name"`
	TicketsAvailable    int       `json:"tickets_available"`
}

type showDetail struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Duration           int                 `json:"duration"`
	ShowTheme          []themeItem         `json:"show_theme"`
	Image              *string             `json:"image"`
	FutureShowSessions []futureSessionItem `json:"future_show_sessions"`
}

func newShowItem(c echo.Context, s model.AstronomyShow) showItem {
	names := make([]string, 0, len(s.Themes))
	for _, t := range s.Themes {
		names = append(names, t.Name)
	}
	return showItem{ID: s.ID, Title: s.Title, Description: s.Description, Duration: s.Duration,
		ShowTheme: names, Image: mediaURL(c, s.Image)}
}

func (h *ShowHandler) newShowDetail(c echo.Context, d service.ShowDetail) showDetail {
	out := showDetail{
		ID: d.ID, Title: d.Title, Description: d.Description, Duration: d.Duration,
		ShowTheme:          make([]themeItem, 0, len(d.Themes)),
		Image:              mediaURL(c, d.Image),
		FutureShowSessions: make([]futureSessionItem, 0, len(d.FutureSessions)),
	}
	for _, t := range d.Themes {
		out.ShowTheme = append(out.ShowTheme, newThemeItem(t))
	}
	for _, s := range d.FutureSessions {
		out.FutureShowSessions = append(out.FutureShowSessions, futureSessionItem{
			ID: s.ID, ShowBegin: s.ShowBegin.In(h.Loc), PlanetariumDomeName: s.DomeName, TicketsAvailable: s.AvailableSeats(),
		})
	}
	return out
}

// mediaURL turns a stored relative media path into an absolute URL.
func mediaURL(c echo.Context, rel *string) *string {
	if rel == nil || *rel == "" {
		return nil
	}
	u := c.Scheme() + "://" + c.Request().Host + "/media/" + strings.TrimPrefix(*rel, "/")
	return &u
}

// List supports ?title= (case-insensitive substring) and ?show_theme=1,2
// (any of the themes).
func (h *ShowHandler) List(c echo.Context) error {
	themeIDs, err := queryIDList(c, "show_theme")
	if err != nil {
		return respondError(c, err)
	}
	p := parsePage(c)
	shows, total, err := h.Shows.List(c.Request().Context(), repository.ShowFilter{
		Title:    c.QueryParam("title"),
		ThemeIDs: themeIDs,
		Page:     p.repo(),
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]showItem, 0, len(shows))
	for _, s := range shows {
		items = append(items, newShowItem(c, s))
	}
	return paginated(c, p, total, items)
}

func (h *ShowHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Shows.Detail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.newShowDetail(c, d))
}

func (h *ShowHandler) Create(c echo.Context) error {
	var body showBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	s, err := h.Shows.Create(c.Request().Context(), body.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newShowItem(c, s))
}

func (h *ShowHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var body showBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	s, err := h.Shows.Update(c.Request().Context(), id, body.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newShowItem(c, s))
}

func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Shows.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage accepts a multipart form with an "image" file.
func (h *ShowHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return respondError(c, apperr.Invalid("image", "no file was submitted"))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	s, err := h.Shows.UploadImage(c.Request().Context(), id, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": s.ID, "image": mediaURL(c, s.Image)})
}
