package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

var (
	anon  = Principal{}
	user  = Principal{UserID: 7, Role: model.RoleUser}
	admin = Principal{UserID: 1, Role: model.RoleAdmin}
)

func TestReferenceDataWritesAreAdminOnly(t *testing.T) {
	for _, op := range []Operation{DomeCreate, DomeUpdate, ThemeCreate, ThemeUpdate, ShowCreate, ShowUpdate, ShowDelete, ShowUploadImage, SessionCreate, SessionUpdate, SessionDelete} {
		assert.ErrorIs(t, Check(op, anon), apperr.ErrUnauthorized, op)
		assert.ErrorIs(t, Check(op, user), apperr.ErrForbidden, op)
		assert.NoError(t, Check(op, admin), op)
	}
}

func TestReferenceDataReadsArePublic(t *testing.T) {
	for _, op := range []Operation{DomeList, DomeGet, ThemeList, ThemeGet, ShowList, ShowGet, SessionList, SessionGet} {
		assert.NoError(t, Check(op, anon), op)
	}
}

func TestReservationsNeedLogin(t *testing.T) {
	for _, op := range []Operation{ReservationList, ReservationGet, ReservationCreate, ReservationDelete} {
		assert.ErrorIs(t, Check(op, anon), apperr.ErrUnauthorized, op)
		assert.NoError(t, Check(op, user), op)
		assert.NoError(t, Check(op, admin), op)
	}
}

func TestUnknownOperationIsRefused(t *testing.T) {
	assert.ErrorIs(t, Check(Operation("nope"), admin), apperr.ErrForbidden)
}

func TestPrincipal(t *testing.T) {
	assert.False(t, anon.Authenticated())
	assert.False(t, Principal{Role: model.RoleAdmin}.IsAdmin())
	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}
