package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/config"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/policy"
	"github.com/iliyamo/planetarium-reservation/internal/service"
	"github.com/iliyamo/planetarium-reservation/internal/validation"
)

var berlin, _ = time.LoadLocation("Europe/Berlin")

var _ echo.HTTPErrorHandler = ErrorHandler

func newEcho(p policy.Principal) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = validation.NewRequest()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p.Authenticated() {
				middleware.SetPrincipal(c, p)
			}
			return next(c)
		}
	})
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestDomeCreateAndValidation(t *testing.T) {
	domes := &fakeDomes{}
	h := NewDomeHandler(domes)
	e := newEcho(policy.Principal{})
	e.POST("/planetarium_domes", h.Create)

	rec := do(e, http.MethodPost, "/planetarium_domes",
		`{"name":"Main","seat_rows":[{"row_number":1,"seats_in_row":5},{"row_number":2,"seats_in_row":7}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(12), body["capacity"])
	assert.Len(t, body["seat_rows"], 2)
	assert.Equal(t, 2, len(domes.got.SeatRows))

	fieldErr := func(body, field string) any {
		rec := do(e, http.MethodPost, "/planetarium_domes", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		return decode(t, rec)["fields"].(map[string]any)[field]
	}
	assert.Equal(t, []any{"ensure this field has at least 1 elements"},
		fieldErr(`{"name":"Main","seat_rows":[]}`, "seat_rows"))
	assert.Equal(t, []any{"this field may not be blank"},
		fieldErr(`{"name":"  ","seat_rows":[{"row_number":1,"seats_in_row":5}]}`, "name"))
	assert.Equal(t, []any{"ensure this value is greater than or equal to 1"},
		fieldErr(`{"name":"Main","seat_rows":[{"row_number":1,"seats_in_row":5},{"row_number":2,"seats_in_row":0}]}`, "seat_rows[1].seats_in_row"))

	domes.err = validation.ValidateSeatRows([]model.SeatRow{{RowNumber: 1, SeatsInRow: 5}, {RowNumber: 1, SeatsInRow: 3}})
	assert.Equal(t, []any{"Row 1 is specified multiple times"},
		fieldErr(`{"name":"Main","seat_rows":[{"row_number":1,"seats_in_row":5},{"row_number":1,"seats_in_row":3}]}`, "seat_rows"))

	rec = do(e, http.MethodPost, "/planetarium_domes", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDomeGetNotFound(t *testing.T) {
	e := newEcho(policy.Principal{})
	e.GET("/planetarium_domes/:id", NewDomeHandler(&fakeDomes{}).Get)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/planetarium_domes/9", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/planetarium_domes/abc", "").Code)
}

func TestPaginationEnvelope(t *testing.T) {
	themes := &fakeThemes{themes: []model.ShowTheme{{ID: 21, Name: "Stars"}}, total: 45}
	e := newEcho(policy.Principal{})
	e.GET("/show_themes", NewThemeHandler(themes).List)

	rec := do(e, http.MethodGet, "/show_themes?page=2&page_size=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(45), body["count"])
	assert.Equal(t, "http://example.com/show_themes/?page=3&page_size=20", body["next"])
	assert.Equal(t, "http://example.com/show_themes/?page_size=20", body["previous"])
	assert.Len(t, body["results"], 1)
	assert.Equal(t, 20, themes.page.Offset)

	// invalid values fall back, oversized pages are capped
	rec = do(e, http.MethodGet, "/show_themes?page=-3&page_size=1000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, themes.page.Offset)
	assert.Equal(t, 100, themes.page.Limit)
	assert.Nil(t, decode(t, rec)["previous"])

	// huge page numbers are capped before computing the offset
	rec = do(e, http.MethodGet, "/show_themes?page=9223372036854775807&page_size=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, (maxPage-1)*100, themes.page.Offset)
	assert.Equal(t, "http://example.com/show_themes/?page=999999&page_size=100", decode(t, rec)["previous"])
}

func TestShowListFilters(t *testing.T) {
	img := "astronomy_shows/orion-1.png"
	shows := &fakeShows{shows: []model.AstronomyShow{{
		ID: 1, Title: "Orion", Duration: 45, Image: &img,
		Themes: []model.ShowTheme{{ID: 1, Name: "Stars"}, {ID: 2, Name: "Nebulae"}},
	}}}
	e := newEcho(policy.Principal{})
	e.GET("/astronomy_shows", NewShowHandler(shows, berlin).List)

	rec := do(e, http.MethodGet, "/astronomy_shows?title=ori&show_theme=1,2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ori", shows.filter.Title)
	assert.Equal(t, []uint64{1, 2}, shows.filter.ThemeIDs)

	item := decode(t, rec)["results"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"Stars", "Nebulae"}, item["show_theme"])
	assert.Equal(t, "http://example.com/media/astronomy_shows/orion-1.png", item["image"])

	rec = do(e, http.MethodGet, "/astronomy_shows?show_theme=1,x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowDetailFutureSessions(t *testing.T) {
	begin := time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)
	shows := &fakeShows{detail: service.ShowDetail{
		AstronomyShow: model.AstronomyShow{ID: 3, Title: "Mars", Duration: 60, Themes: []model.ShowTheme{{ID: 4, Name: "Planets"}}},
		FutureSessions: []model.SessionSummary{{
			ShowSession: model.ShowSession{ID: 8, ShowBegin: begin}, DomeName: "Main", DomeCapacity: 10, TicketsSold: 4,
		}},
	}}
	e := newEcho(policy.Principal{})
	e.GET("/astronomy_shows/:id", NewShowHandler(shows, berlin).Get)

	rec := do(e, http.MethodGet, "/astronomy_shows/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["image"])
	assert.Equal(t, []any{map[string]any{"id": float64(4), "name": "Planets"}}, body["show_theme"])
	fs := body["future_show_sessions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(6), fs["tickets_available"])
	assert.Equal(t, "2026-07-01T20:00:00+02:00", fs["show_begin"])
}

func TestShowCreateValidation(t *testing.T) {
	e := newEcho(policy.Principal{})
	e.POST("/astronomy_shows", NewShowHandler(&fakeShows{}, berlin).Create)

	rec := do(e, http.MethodPost, "/astronomy_shows", `{"title":" Orion ","description":"Winter sky","duration":60,"show_theme":[1]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Orion", decode(t, rec)["title"])

	cases := map[string]string{
		"duration":      `{"title":"Orion","description":"Winter sky","duration":0}`,
		"description":   `{"title":"Orion","description":"  ","duration":60}`,
		"show_theme[1]": `{"title":"Orion","description":"Winter sky","duration":60,"show_theme":[1,0]}`,
	}
	for field, body := range cases {
		rec := do(e, http.MethodPost, "/astronomy_shows", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, decode(t, rec)["fields"], field, body)
	}
}

func TestShowDeleteConflict(t *testing.T) {
	shows := &fakeShows{deleteErr: apperr.ErrConflict}
	e := newEcho(policy.Principal{})
	e.DELETE("/astronomy_shows/:id", NewShowHandler(shows, berlin).Delete)

	assert.Equal(t, http.StatusConflict, do(e, http.MethodDelete, "/astronomy_shows/1", "").Code)
	shows.deleteErr = nil
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/astronomy_shows/1", "").Code)
}

func TestShowUploadImage(t *testing.T) {
	shows := &fakeShows{}
	e := newEcho(policy.Principal{})
	e.POST("/astronomy_shows/:id/upload-image", NewShowHandler(shows, berlin).UploadImage)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "a.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/astronomy_shows/1/upload-image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/media/astronomy_shows/show-1.png", decode(t, rec)["image"])
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), shows.uploaded)

	rec = do(e, http.MethodPost, "/astronomy_shows/1/upload-image", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "image")
}

func TestSessionCreateParsesBegin(t *testing.T) {
	sessions := &fakeSessions{}
	e := newEcho(policy.Principal{})
	e.POST("/show_sessions", NewSessionHandler(sessions, berlin).Create)

	rec := do(e, http.MethodPost, "/show_sessions",
		`{"astronomy_show":2,"planetarium_dome":3,"show_begin":"2026-03-29T10:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	// naive input is Berlin local time; CEST has started on that day
	assert.Equal(t, time.Date(2026, 3, 29, 8, 0, 0, 0, time.UTC), sessions.input.ShowBegin)
	assert.Equal(t, uint64(2), sessions.input.ShowID)

	rec = do(e, http.MethodPost, "/show_sessions",
		`{"astronomy_show":2,"planetarium_dome":3,"show_begin":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "show_begin")
}

func TestSessionListAndDetail(t *testing.T) {
	img := "astronomy_shows/x.png"
	summary := model.SessionSummary{
		ShowSession: model.ShowSession{ID: 5, AstronomyShowID: 1, DomeID: 2, ShowBegin: time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)},
		ShowTitle:   "Orion", ShowDuration: 30, ShowImage: &img, DomeName: "Main", DomeCapacity: 12, TicketsSold: 2,
	}
	sessions := &fakeSessions{
		list: []model.SessionSummary{summary},
		detail: service.SessionDetail{
			SessionSummary: summary,
			Show:           model.AstronomyShow{ID: 1, Title: "Orion", Duration: 30},
			Dome:           model.Dome{ID: 2, Name: "Main", SeatRows: []model.SeatRow{{ID: 1, RowNumber: 1, SeatsInRow: 12}}},
			TakenPlaces:    []model.Place{{Row: 1, Seat: 3}, {Row: 1, Seat: 4}},
		},
	}
	h := NewSessionHandler(sessions, berlin)
	e := newEcho(policy.Principal{})
	e.GET("/show_sessions", h.List)
	e.GET("/show_sessions/:id", h.Get)

	rec := do(e, http.MethodGet, "/show_sessions?astronomy_show=1&planetarium_dome=2&date=2026-01-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.SessionQuery{ShowID: 1, DomeID: 2, Date: "2026-01-10", Page: sessions.query.Page}, sessions.query)
	item := decode(t, rec)["results"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(10), item["tickets_available"])
	assert.Equal(t, "2026-01-10T19:30:00+01:00", item["show_end"])
	assert.Equal(t, "Main", item["planetarium_dome_name"])

	sessions.listErr = apperr.Invalid("date", "Enter a valid date in YYYY-MM-DD format.")
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/show_sessions?date=10.01.2026", "").Code)

	rec = do(e, http.MethodGet, "/show_sessions/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []any{
		map[string]any{"row": float64(1), "seat": float64(3)},
		map[string]any{"row": float64(1), "seat": float64(4)},
	}, body["taken_places"])
	assert.Equal(t, float64(12), body["planetarium_dome"].(map[string]any)["capacity"])
}

func TestReservationCreate(t *testing.T) {
	res := &fakeReservations{}
	e := newEcho(policy.Principal{UserID: 42, Role: model.RoleUser})
	e.POST("/reservations", NewReservationHandler(res, berlin).Create)

	rec := do(e, http.MethodPost, "/reservations",
		`{"tickets":[{"show_session":1,"row":1,"seat":1},{"show_session":1,"row":1,"seat":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(42), res.userID)
	assert.Len(t, res.reqs, 2)
	assert.Len(t, decode(t, rec)["tickets"], 2)

	res.err = apperr.Invalid("seat", "seat must be in range [1, 5], not 99")
	rec = do(e, http.MethodPost, "/reservations", `{"tickets":[{"show_session":1,"row":1,"seat":99}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"seat must be in range [1, 5], not 99"}, decode(t, rec)["fields"].(map[string]any)["seat"])

	res.err = apperr.ErrConflict
	rec = do(e, http.MethodPost, "/reservations", `{"tickets":[{"show_session":1,"row":1,"seat":1}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	res.err = apperr.ErrNotFound
	rec = do(e, http.MethodPost, "/reservations", `{"tickets":[{"show_session":99,"row":1,"seat":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	res.err = nil
	rec = do(e, http.MethodPost, "/reservations", `{"tickets":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"ensure this field has at least 1 elements"}, decode(t, rec)["fields"].(map[string]any)["tickets"])
	rec = do(e, http.MethodPost, "/reservations", `{"tickets":[{"row":1,"seat":1}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "tickets[0].show_session")
}

func TestReservationReadsAreScoped(t *testing.T) {
	res := &fakeReservations{owned: map[uint64]model.Reservation{
		1: {ID: 1, UserID: 42, Tickets: []model.Ticket{{ID: 1, ShowSessionID: 3, Row: 1, Seat: 1, Session: &model.TicketSession{ID: 3, ShowTitle: "Orion", DomeName: "Main"}}}},
		2: {ID: 2, UserID: 7},
	}}
	h := NewReservationHandler(res, berlin)
	e := newEcho(policy.Principal{UserID: 42, Role: model.RoleUser})
	e.GET("/reservations", h.List)
	e.GET("/reservations/:id", h.Get)

	rec := do(e, http.MethodGet, "/reservations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = do(e, http.MethodGet, "/reservations/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ticket := decode(t, rec)["tickets"].([]any)[0].(map[string]any)
	assert.Equal(t, "Orion", ticket["show_session"].(map[string]any)["astronomy_show_title"])

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/reservations/2", "").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	e := newEcho(policy.Principal{})
	e.DELETE("/show_sessions/:id", MethodNotAllowed)
	rec := do(e, http.MethodDelete, "/show_sessions/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method not allowed", decode(t, rec)["error"])
}

func TestInternalErrorsAreHidden(t *testing.T) {
	domes := &fakeDomes{err: assert.AnError}
	e := newEcho(policy.Principal{})
	e.GET("/planetarium_domes", NewDomeHandler(domes).List)

	rec := do(e, http.MethodGet, "/planetarium_domes", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["error"])
}

func TestHealth(t *testing.T) {
	e := newEcho(policy.Principal{})
	e.GET("/health", Health(nil))
	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func newAuth() (*AuthHandler, *fakeUsers, *fakeTokens) {
	users := &fakeUsers{byEmail: map[string]model.User{}}
	tokens := &fakeTokens{stored: map[string]uint64{}}
	cfg := config.Config{JWTSecret: "s", AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4}
	return NewAuthHandler(cfg, users, tokens), users, tokens
}

func TestRegisterLoginRefresh(t *testing.T) {
	h, _, tokens := newAuth()
	e := newEcho(policy.Principal{})
	e.POST("/user/register", h.Register)
	e.POST("/user/login", h.Login)
	e.POST("/user/refresh", h.Refresh)

	rec := do(e, http.MethodPost, "/user/register", `{"email":" Ann@Example.com ","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, model.RoleUser, user["role"])
	assert.Len(t, tokens.stored, 1)

	rec = do(e, http.MethodPost, "/user/register", `{"email":"ann@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/user/register", `{"email":"bob@example.com","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"ensure this field has at least 8 characters"}, decode(t, rec)["fields"].(map[string]any)["password"])
	rec = do(e, http.MethodPost, "/user/register", `{"email":"bob.example.com","password":"longenough"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "email")
	rec = do(e, http.MethodPost, "/user/login", `{"email":"ann@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/user/login", `{"email":"ann@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(e, http.MethodPost, "/user/login", `{"email":"nobody@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/user/login", `{"email":"ann@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := decode(t, rec)["refresh"].(map[string]any)["token"].(string)

	rec = do(e, http.MethodPost, "/user/refresh", `{"refresh_token":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	// the old token has been rotated out
	rec = do(e, http.MethodPost, "/user/refresh", `{"refresh_token":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeAndLogout(t *testing.T) {
	h, users, tokens := newAuth()
	users.byEmail["ann@example.com"] = model.User{ID: 3, Email: "ann@example.com", IsStaff: true, IsActive: true}
	e := newEcho(policy.Principal{UserID: 3, Role: model.RoleAdmin})
	e.GET("/user/me", h.Me)
	e.POST("/user/logout", h.Logout)

	rec := do(e, http.MethodGet, "/user/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleAdmin, decode(t, rec)["role"])

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/user/logout", "").Code)
	assert.Equal(t, []uint64{3}, tokens.revoked)
}
