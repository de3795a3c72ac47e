// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts finished requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planetarium_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_reservations_created_total",
		Help: "Reservations committed.",
	})

	TicketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_tickets_created_total",
		Help: "Tickets committed as part of a reservation.",
	})

	// ReservationConflicts counts reservations rolled back because a seat was already sold.
	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planetarium_reservation_conflicts_total",
		Help: "Reservation attempts rejected because a requested seat was taken.",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
