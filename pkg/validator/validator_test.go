package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone  string          `json:"phone" validate:"required,phone"`
	Date   string          `json:"appointment_date" validate:"required,ymd"`
	Time   string          `json:"appointment_time" validate:"required,hhmm"`
	Mode   string          `json:"appointment_mode" validate:"required,oneof=center home"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

func TestValidate_Valid(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{
		Phone:  "+251911223344",
		Date:   "2030-01-05",
		Time:   "09:30",
		Mode:   "center",
		Amount: decimal.NewFromInt(600),
	})

	assert.NoError(t, err)
}

func TestValidate_FormatsByJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{
		Phone:  "0911",
		Date:   "05/01/2030",
		Time:   "9:30",
		Mode:   "online",
		Amount: decimal.Zero,
	})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "phone must be a valid phone number", msgs["phone"])
	assert.Equal(t, "appointment_date must be a date in YYYY-MM-DD format", msgs["appointment_date"])
	assert.Equal(t, "appointment_time must be a time in HH:MM format", msgs["appointment_time"])
	assert.Equal(t, "appointment_mode must be one of: center, home", msgs["appointment_mode"])
	assert.Equal(t, "amount must be greater than 0", msgs["amount"])
}
