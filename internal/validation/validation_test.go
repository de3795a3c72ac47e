package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

func dome() model.Dome {
	return model.Dome{ID: 1, SeatRows: []model.SeatRow{
		{RowNumber: 1, SeatsInRow: 5},
		{RowNumber: 2, SeatsInRow: 8},
	}}
}

func TestValidateSeatRange(t *testing.T) {
	for seat := 1; seat <= 5; seat++ {
		assert.NoError(t, ValidateSeat(1, seat, dome()), "seat %d", seat)
	}

	err := ValidateSeat(1, 6, dome())
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "seat", ve.Field)
	assert.Equal(t, "seat must be in range [1, 5], not 6", ve.Message)

	ve, ok = apperr.AsValidation(ValidateSeat(2, 0, dome()))
	require.True(t, ok)
	assert.Equal(t, "seat must be in range [1, 8], not 0", ve.Message)
}

func TestValidateSeatUnknownRow(t *testing.T) {
	err := ValidateSeat(3, 1, dome())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, isValidation := apperr.AsValidation(err)
	assert.False(t, isValidation)
}

func TestValidateSeatRows(t *testing.T) {
	ve, ok := apperr.AsValidation(ValidateSeatRows(nil))
	require.True(t, ok)
	assert.Equal(t, "seat_rows", ve.Field)

	err := ValidateSeatRows([]model.SeatRow{{RowNumber: 1, SeatsInRow: 5}, {RowNumber: 2, SeatsInRow: 5}, {RowNumber: 1, SeatsInRow: 9}})
	ve, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Row 1 is specified multiple times", ve.Message)

	assert.NoError(t, ValidateSeatRows([]model.SeatRow{{RowNumber: 0, SeatsInRow: 1}, {RowNumber: 1, SeatsInRow: 12}}))
}

type rowReq struct {
	RowNumber  int `json:"row_number" validate:"gte=0"`
	SeatsInRow int `json:"seats_in_row" validate:"min=1"`
}

type layoutReq struct {
	Name  string   `json:"name" validate:"required,max=255"`
	Email string   `json:"email" validate:"omitempty,email"`
	Rows  []rowReq `json:"seat_rows" validate:"required,min=1,dive"`
}

func TestRequestValidator(t *testing.T) {
	v := NewRequest()
	ok := layoutReq{Name: "Main", Rows: []rowReq{{RowNumber: 0, SeatsInRow: 3}}}
	require.NoError(t, v.Validate(&ok))

	cases := []struct {
		name  string
		req   layoutReq
		field string
		msg   string
	}{
		{"blank name", layoutReq{Rows: ok.Rows}, "name", "this field may not be blank"},
		{"long name", layoutReq{Name: strings.Repeat("x", 256), Rows: ok.Rows}, "name", "ensure this field has no more than 255 characters"},
		{"bad email", layoutReq{Name: "Main", Email: "nope", Rows: ok.Rows}, "email", "enter a valid email address"},
		{"missing rows", layoutReq{Name: "Main"}, "seat_rows", "this field is required"},
		{"empty rows", layoutReq{Name: "Main", Rows: []rowReq{}}, "seat_rows", "ensure this field has at least 1 elements"},
		{"empty row", layoutReq{Name: "Main", Rows: []rowReq{{1, 4}, {2, 0}}}, "seat_rows[1].seats_in_row", "ensure this value is greater than or equal to 1"},
		{"negative row", layoutReq{Name: "Main", Rows: []rowReq{{-1, 4}}}, "seat_rows[0].row_number", "ensure this value is greater than or equal to 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ve, ok := apperr.AsValidation(v.Validate(&tc.req))
			require.True(t, ok)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.msg, ve.Message)
		})
	}
}
