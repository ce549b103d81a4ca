package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	r := NewPDFRenderer("Medical Center")

	out, err := r.Render(&Invoice{
		Number:          "TX-1700000000000-abc",
		IssuedAt:        time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC),
		Status:          "Completed",
		ClientName:      "Abebe Kebede",
		ClientEmail:     "abebe@example.com",
		ClientPhone:     "+251911000000",
		AppointmentDate: time.Date(2030, 1, 5, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30",
		Items: []LineItem{
			{Description: "Registration fee", Amount: decimal.NewFromInt(300)},
			{Description: "Complete Blood Count", Amount: decimal.NewFromInt(150)},
		},
		Total:    decimal.NewFromInt(450),
		Currency: "ETB",
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_NoItems(t *testing.T) {
	out, err := NewPDFRenderer("Clinic").Render(&Invoice{Number: "TX-2", Total: decimal.Zero, Currency: "ETB"})

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
