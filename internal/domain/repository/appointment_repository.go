package repository

import (
	"medcenter-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	CreateServices(db *gorm.DB, selections []entity.AppointmentService) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByTxRef(db *gorm.DB, txRef string) (*entity.Appointment, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error)
	UpdateTxRef(db *gorm.DB, id uuid.UUID, txRef string) (int64, error)
	MarkPaymentStatus(db *gorm.DB, id uuid.UUID, status entity.PaymentStatus) (int64, error)
}
