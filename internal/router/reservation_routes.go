package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/policy"
)

// registerReservations mounts /reservations. Every route needs an
// authenticated caller; reservations are immutable, so edits and deletes
// answer 405 once the caller is known.
func registerReservations(e *echo.Echo, h *handler.ReservationHandler) {
	g := e.Group("/reservations")
	g.GET("", h.List, middleware.Authorize(policy.ReservationList))
	g.POST("", h.Create, middleware.Authorize(policy.ReservationCreate))
	g.GET("/:id", h.Get, middleware.Authorize(policy.ReservationGet))
	g.PUT("/:id", handler.MethodNotAllowed, middleware.Authorize(policy.ReservationUpdate))
	g.PATCH("/:id", handler.MethodNotAllowed, middleware.Authorize(policy.ReservationUpdate))
	g.DELETE("/:id", handler.MethodNotAllowed, middleware.Authorize(policy.ReservationDelete))
}
