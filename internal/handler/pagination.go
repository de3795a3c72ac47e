package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*page_size well inside an int OFFSET.
	maxPage = 1_000_000
)

type pageParams struct {
	page int
	size int
}

// parsePage reads ?page= and ?page_size=. Missing or invalid values fall
// back to page 1 and 20 items; page_size is capped at 100 and page at
// maxPage.
func parsePage(c echo.Context) pageParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = defaultPageSize
	}
	if ps > maxPageSize {
		ps = maxPageSize
	}
	return pageParams{page: page, size: ps}
}

func (p pageParams) repo() repository.Page {
	return repository.Page{Limit: p.size, Offset: (p.page - 1) * p.size}
}

type pageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func paginated(c echo.Context, p pageParams, total int, results any) error {
	resp := pageResponse{Count: total, Results: results}
	if p.page*p.size < total {
		u := pageURL(c, p.page+1)
		resp.Next = &u
	}
	if p.page > 1 {
		u := pageURL(c, p.page-1)
		resp.Previous = &u
	}
	return c.JSON(http.StatusOK, resp)
}

func pageURL(c echo.Context, page int) string {
	u := *c.Request().URL
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	// Routes are matched without the trailing slash; links keep it.
	path := u.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	out := c.Scheme() + "://" + c.Request().Host + path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
