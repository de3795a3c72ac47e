// Package policy decides, per operation, who may call it. Every route is
// bound to an Operation and the rule for that operation runs before the
// handler does.
package policy

import (
	"fmt"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// Principal is the caller of a request. The zero value is the anonymous
// caller.
type Principal struct {
	UserID uint64
	Role   string
}

// Authenticated reports whether the request carried a valid access token.
func (p Principal) Authenticated() bool { return p.UserID != 0 }

// IsAdmin reports whether the caller is staff.
func (p Principal) IsAdmin() bool { return p.Authenticated() && p.Role == model.RoleAdmin }

// Rule returns nil when p may perform the operation.
type Rule func(p Principal) error

// Public lets anybody through.
func Public(Principal) error { return nil }

// Authenticated requires a logged-in caller.
func Authenticated(p Principal) error {
	if !p.Authenticated() {
		return apperr.ErrUnauthorized
	}
	return nil
}

// AdminOnly requires a logged-in staff caller. Anonymous callers get
// ErrUnauthorized so that clients know to log in first.
func AdminOnly(p Principal) error {
	if err := Authenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}

// Operation names one API action.
type Operation string

const (
	DomeList   Operation = "dome.list"
	DomeGet    Operation = "dome.get"
	DomeCreate Operation = "dome.create"
	DomeUpdate Operation = "dome.update"
	DomeDelete Operation = "dome.delete"

	ThemeList   Operation = "theme.list"
	ThemeGet    Operation = "theme.get"
	ThemeCreate Operation = "theme.create"
	ThemeUpdate Operation = "theme.update"
	ThemeDelete Operation = "theme.delete"

	ShowList        Operation = "show.list"
	ShowGet         Operation = "show.get"
	ShowCreate      Operation = "show.create"
	ShowUpdate      Operation = "show.update"
	ShowDelete      Operation = "show.delete"
	ShowUploadImage Operation = "show.upload_image"

	SessionList   Operation = "session.list"
	SessionGet    Operation = "session.get"
	SessionCreate Operation = "session.create"
	SessionUpdate Operation = "session.update"
	SessionDelete Operation = "session.delete"

	ReservationList   Operation = "reservation.list"
	ReservationGet    Operation = "reservation.get"
	ReservationCreate Operation = "reservation.create"
	ReservationUpdate Operation = "reservation.update"
	ReservationDelete Operation = "reservation.delete"

	UserMe Operation = "user.me"
)

// rules is the whole authorization table. Reference data is readable by
// everybody and writable by staff; reservations need a login and are
// scoped to their owner by the repository queries.
var rules = map[Operation]Rule{
	DomeList:   Public,
	DomeGet:    Public,
	DomeCreate: AdminOnly,
	DomeUpdate: AdminOnly,
	DomeDelete: AdminOnly,

	ThemeList:   Public,
	ThemeGet:    Public,
	ThemeCreate: AdminOnly,
	ThemeUpdate: AdminOnly,
	ThemeDelete: AdminOnly,

	ShowList:        Public,
	ShowGet:         Public,
	ShowCreate:      AdminOnly,
	ShowUpdate:      AdminOnly,
	ShowDelete:      AdminOnly,
	ShowUploadImage: AdminOnly,

	SessionList:   Public,
	SessionGet:    Public,
	SessionCreate: AdminOnly,
	SessionUpdate: AdminOnly,
	SessionDelete: AdminOnly,

	ReservationList:   Authenticated,
	ReservationGet:    Authenticated,
	ReservationCreate: Authenticated,
	ReservationUpdate: Authenticated,
	ReservationDelete: Authenticated,

	UserMe: Authenticated,
}

// Check evaluates the rule registered for op. Unknown operations are
// refused so that a route cannot be wired without a decision.
func Check(op Operation, p Principal) error {
	rule, ok := rules[op]
	if !ok {
		return fmt.Errorf("no policy for %q: %w", op, apperr.ErrForbidden)
	}
	return rule(p)
}
