package repository

import (
	"errors"

	"medcenter-booking/internal/domain/entity"
	domainRepo "medcenter-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Department", "Services").Create(appointment).Error
}

func (r *appointmentRepository) CreateServices(db *gorm.DB, selections []entity.AppointmentService) error {
	if len(selections) == 0 {
		return nil
	}
	return db.Omit("Service").Create(&selections).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *appointmentRepository) FindByTxRef(db *gorm.DB, txRef string) (*entity.Appointment, error) {
	return r.findOne(db.Where("tx_ref = ?", txRef))
}

func (r *appointmentRepository) findOne(db *gorm.DB) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").
		Preload("Department").
		Preload("Services.Service").
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Preload("Department").
		Preload("Services.Service").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateTxRef replaces the transaction reference of a pending appointment.
// Returns affected rows: 0 means the appointment is no longer pending.
func (r *appointmentRepository) UpdateTxRef(db *gorm.DB, id uuid.UUID, txRef string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusPending).
		Update("tx_ref", txRef)
	return result.RowsAffected, result.Error
}

// MarkPaymentStatus moves a pending appointment to a terminal status.
// Returns affected rows: 1 = transitioned, 0 = already terminal (redelivered webhook).
func (r *appointmentRepository) MarkPaymentStatus(db *gorm.DB, id uuid.UUID, status entity.PaymentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusPending).
		Update("payment_status", status)
	return result.RowsAffected, result.Error
}
