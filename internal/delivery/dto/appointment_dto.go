package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=255"`
	Age             *int   `json:"age" validate:"required,gte=0,lte=120"`
	Sex             string `json:"sex" validate:"required,oneof=male female other"`
	Phone           string `json:"phone" validate:"required,phone"`
	Email           string `json:"email" validate:"required,email"`
	Address         string `json:"address" validate:"omitempty,max=500"`
	MRN             string `json:"mrn" validate:"omitempty,max=50"`
	DepartmentID    *int   `json:"department_id" validate:"omitempty,gt=0"`
	ServiceIDs      []int  `json:"service_ids" validate:"omitempty,dive,gt=0"`
	OtherServices   string `json:"other_services" validate:"omitempty,max=1000"`
	AppointmentDate string `json:"appointment_date" validate:"required,ymd"`
	AppointmentTime string `json:"appointment_time" validate:"required,hhmm"`
	AppointmentMode string `json:"appointment_mode" validate:"required,oneof=center home"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Age         int       `json:"age"`
	Sex         string    `json:"sex"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	MRN         string    `json:"mrn,omitempty"`
}

type SelectedServiceResponse struct {
	ServiceID int             `json:"service_id"`
	Name      string          `json:"name,omitempty"`
	Type      string          `json:"type,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

type AppointmentResponse struct {
	ID              uuid.UUID                 `json:"id"`
	Patient         *PatientResponse          `json:"patient,omitempty"`
	Department      *DepartmentResponse       `json:"department,omitempty"`
	Services        []SelectedServiceResponse `json:"services"`
	OtherServices   string                    `json:"other_services,omitempty"`
	AppointmentDate string                    `json:"appointment_date"`
	AppointmentTime string                    `json:"appointment_time"`
	AppointmentMode string                    `json:"appointment_mode"`
	BasePrice       decimal.Decimal           `json:"base_price"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	PaymentStatus   string                    `json:"payment_status"`
	TxRef           string                    `json:"tx_ref"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type CreateAppointmentResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	CheckoutURL string              `json:"checkout_url"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type PaymentStatusResponse struct {
	PaymentStatus string `json:"payment_status"`
}
