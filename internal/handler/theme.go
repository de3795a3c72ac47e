package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ThemeHandler serves /show_themes.
type ThemeHandler struct {
	Themes ThemeService
}

func NewThemeHandler(s ThemeService) *ThemeHandler { return &ThemeHandler{Themes: s} }

type themeBody struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (b *themeBody) normalize() { b.Name = strings.TrimSpace(b.Name) }

type themeItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func newThemeItem(t model.ShowTheme) themeItem { return themeItem{ID: t.ID, Name: t.Name} }

func (h *ThemeHandler) List(c echo.Context) error {
	p := parsePage(c)
	themes, total, err := h.Themes.List(c.Request().Context(), p.repo())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]themeItem, 0, len(themes))
	for _, t := range themes {
		items = append(items, newThemeItem(t))
	}
	return paginated(c, p, total, items)
}

func (h *ThemeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	t, err := h.Themes.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newThemeItem(t))
}

func (h *ThemeHandler) Create(c echo.Context) error {
	var body themeBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	t, err := h.Themes.Create(c.Request().Context(), body.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newThemeItem(t))
}

func (h *ThemeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var body themeBody
	if err := bind(c, &body); err != nil {
		return respondError(c, err)
	}
	t, err := h.Themes.Update(c.Request().Context(), id, body.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newThemeItem(t))
}
