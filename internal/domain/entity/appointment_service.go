package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentService links an appointment to a selected catalog service.
// Price is a snapshot taken at booking time.
type AppointmentService struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_appointment_service" json:"appointment_id"`
	ServiceID     int             `gorm:"not null;uniqueIndex:ux_appointment_service" json:"service_id"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (AppointmentService) TableName() string {
	return "appointment_services"
}
