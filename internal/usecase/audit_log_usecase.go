package usecase

import (
	"context"
	"fmt"

	"medcenter-booking/internal/converter"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	GetEntityHistory(ctx context.Context, entityID string) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetEntityHistory lists the audit trail of one appointment, user or service, oldest first
func (u *auditLogUsecase) GetEntityHistory(ctx context.Context, entityID string) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindByEntityID(u.db.WithContext(ctx), entityID)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for %s: %+v", entityID, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// actorFrom returns the signed in user for audit rows, nil for anonymous requests
func actorFrom(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}

func serviceEntityID(id int) string {
	return fmt.Sprintf("service:%d", id)
}
