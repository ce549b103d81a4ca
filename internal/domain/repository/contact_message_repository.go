package repository

import (
	"medcenter-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type ContactMessageRepository interface {
	Create(db *gorm.DB, message *entity.ContactMessage) error
	FindAll(db *gorm.DB) ([]entity.ContactMessage, error)
}
