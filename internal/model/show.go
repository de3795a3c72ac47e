package model

import "time"

// ShowTheme tags astronomy shows ("Black holes", "Solar system", ...).
type ShowTheme struct {
	ID   uint64 // show_themes.id
	Name string // show_themes.name
}

// AstronomyShow is bookable show content. Duration is in minutes.
// A show cannot be deleted while any ShowSession references it.
type AstronomyShow struct {
	ID          uint64      // astronomy_shows.id
	Title       string      // astronomy_shows.title
	Description string      // astronomy_shows.description
	Duration    int         // astronomy_shows.duration (minutes)
	Image       *string     // astronomy_shows.image (relative media path, nullable)
	Themes      []ShowTheme // via astronomy_show_themes
}

// ShowSession is one scheduled screening of a show in a dome.
type ShowSession struct {
	ID              uint64    // show_sessions.id
	AstronomyShowID uint64    // show_sessions.astronomy_show_id
	DomeID          uint64    // show_sessions.planetarium_dome_id
	ShowBegin       time.Time // show_sessions.show_begin (UTC)
}

// End returns the moment a session of the given duration (minutes) finishes.
func (s ShowSession) End(durationMin int) time.Time {
	return s.ShowBegin.Add(time.Duration(durationMin) * time.Minute)
}

// SessionSummary is a ShowSession joined with the show and dome it refers
// to and the number of tickets sold at read time. Capacity and TicketsSold
// are read together so AvailableSeats reflects a single snapshot.
type SessionSummary struct {
	ShowSession
	ShowTitle    string
	ShowDuration int
	ShowImage    *string
	DomeName     string
	DomeCapacity int
	TicketsSold  int
}

// ShowEnd is ShowBegin plus the show's duration.
func (s SessionSummary) ShowEnd() time.Time {
	return s.End(s.ShowDuration)
}

// AvailableSeats is the dome capacity minus the tickets already sold.
func (s SessionSummary) AvailableSeats() int {
	return AvailableSeats(s.DomeCapacity, s.TicketsSold)
}

// AvailableSeats computes remaining places for a session. Rows cannot
// shrink below a sold seat, so sold never exceeds capacity.
func AvailableSeats(capacity, sold int) int {
	return capacity - sold
}
