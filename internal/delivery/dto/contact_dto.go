package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContactRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Message  string `json:"message" validate:"required,min=10,max=5000"`
}

type ContactMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessageListResponse struct {
	Messages []ContactMessageResponse `json:"messages"`
	Total    int                      `json:"total"`
}

type SendBookingEmailRequest struct {
	Name          string          `json:"name" validate:"required"`
	Email         string          `json:"email" validate:"required,email"`
	Phone         string          `json:"phone" validate:"omitempty,phone"`
	TotalAmount   decimal.Decimal `json:"totalAmount" validate:"gt=0"`
	AppointmentID string          `json:"appointmentId" validate:"required"`
}
