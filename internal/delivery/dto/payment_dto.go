package dto

import "github.com/shopspring/decimal"

type InitiatePaymentRequest struct {
	AppointmentID string          `json:"appointmentId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Email         string          `json:"email" validate:"required,email"`
	Phone         string          `json:"phone" validate:"required,phone"`
	Name          string          `json:"name" validate:"required,max=255"`
	TxRef         string          `json:"tx_ref" validate:"required,max=100"`
}

type InitiatePaymentResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// WebhookPayload is the part of the gateway callback the reconciler reads.
// Status is advisory; the verified status always wins.
type WebhookPayload struct {
	TxRef  string `json:"tx_ref"`
	TrxRef string `json:"trx_ref"`
	Status string `json:"status"`
}

// Reference returns whichever transaction reference field the gateway filled
func (p WebhookPayload) Reference() string {
	if p.TxRef != "" {
		return p.TxRef
	}
	return p.TrxRef
}
