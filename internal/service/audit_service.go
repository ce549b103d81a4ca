package service

import (
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	// Record writes the entry through tx so it commits or rolls back with the change it describes
	Record(tx *gorm.DB, userID *uuid.UUID, action string, entityID string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(tx *gorm.DB, userID *uuid.UUID, action string, entityID string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		EntityID: entityID,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{"action": action, "entity_id": entityID}).Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
