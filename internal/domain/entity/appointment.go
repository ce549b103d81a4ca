package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents where an appointment is in the payment lifecycle
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// AppointmentMode tells whether the patient comes to the center or is visited at home
type AppointmentMode string

const (
	AppointmentModeCenter AppointmentMode = "center"
	AppointmentModeHome   AppointmentMode = "home"
)

// Appointment is a booked visit waiting for, or reconciled with, a gateway payment
type Appointment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	DepartmentID    *int            `gorm:"index" json:"department_id,omitempty"`
	AppointmentDate time.Time       `gorm:"type:date;not null" json:"appointment_date"`
	AppointmentTime string          `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Mode            AppointmentMode `gorm:"type:varchar(10);not null" json:"appointment_mode"`
	BasePrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'Pending';index" json:"payment_status"`
	TxRef           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"tx_ref"`
	OtherServices   string          `gorm:"type:text" json:"other_services,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    Patient              `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Department *Department          `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Services   []AppointmentService `gorm:"foreignKey:AppointmentID" json:"services,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the appointment still waits for payment reconciliation
func (a *Appointment) IsPending() bool {
	return a.PaymentStatus == PaymentStatusPending
}

// IsCompleted checks if the payment was verified as successful
func (a *Appointment) IsCompleted() bool {
	return a.PaymentStatus == PaymentStatusCompleted
}
