package service

import (
	"context"
	"time"
	_ "time/tzdata"

	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// FutureSessionsLimit caps the upcoming sessions listed on a show.
const FutureSessionsLimit = 5

// ReferenceZone is the fixed zone "now" is evaluated in for upcoming
// session lookups, whatever the caller's location.
const ReferenceZone = "Europe/Berlin"

// AvailabilityService derives seat availability and upcoming sessions.
// Nothing it returns is stored.
type AvailabilityService struct {
	sessions *repository.SessionRepo
	loc      *time.Location
	now      func() time.Time
}

func NewAvailabilityService(sessions *repository.SessionRepo) *AvailabilityService {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		loc = time.UTC
	}
	return &AvailabilityService{sessions: sessions, loc: loc, now: time.Now}
}

// Now is the current instant in ReferenceZone.
func (a *AvailabilityService) Now() time.Time { return a.now().In(a.loc) }

// AvailableSeats returns capacity minus tickets sold for one session, read
// in a single statement.
func (a *AvailabilityService) AvailableSeats(ctx context.Context, sessionID uint64) (int, error) {
	s, err := a.sessions.GetSummary(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return s.AvailableSeats(), nil
}

// FutureSessions returns up to limit sessions of showID that have not begun,
// earliest first. Limits outside (0, FutureSessionsLimit] use
// FutureSessionsLimit.
func (a *AvailabilityService) FutureSessions(ctx context.Context, showID uint64, limit int) ([]model.SessionSummary, error) {
	if limit <= 0 || limit > FutureSessionsLimit {
		limit = FutureSessionsLimit
	}
	return a.sessions.FutureByShow(ctx, showID, a.Now(), limit)
}
