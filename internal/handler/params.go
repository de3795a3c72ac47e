package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
)

// pathID parses the :id path parameter. Anything that is not a positive
// integer cannot name a stored object, so it is reported as not found.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id %q: %w", c.Param("id"), apperr.ErrNotFound)
	}
	return id, nil
}

// queryID parses an optional id filter; empty means no filter.
func queryID(c echo.Context, name string) (uint64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "a valid integer is required")
	}
	return id, nil
}

// queryIDList parses a comma-separated id list such as ?show_theme=1,3.
func queryIDList(c echo.Context, name string) ([]uint64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	var ids []uint64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, apperr.Invalid(name, "%q is not a valid id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var beginLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseBegin accepts RFC 3339 timestamps and naive date-times; naive
// values are read in loc.
func parseBegin(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Invalid("show_begin", "this field is required")
	}
	for _, layout := range beginLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Invalid("show_begin", "Datetime has wrong format. Use YYYY-MM-DDThh:mm[:ss][+HH:MM|Z].")
}
