package repository

import (
	"medcenter-booking/internal/domain/entity"
	domainRepo "medcenter-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type contactMessageRepository struct{}

func NewContactMessageRepository() domainRepo.ContactMessageRepository {
	return &contactMessageRepository{}
}

func (r *contactMessageRepository) Create(db *gorm.DB, message *entity.ContactMessage) error {
	return db.Create(message).Error
}

func (r *contactMessageRepository) FindAll(db *gorm.DB) ([]entity.ContactMessage, error) {
	var messages []entity.ContactMessage
	err := db.Order("created_at DESC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
