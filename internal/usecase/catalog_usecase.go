package usecase

import (
	"context"
	"errors"
	"strings"

	"medcenter-booking/internal/converter"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/domain/repository"
	"medcenter-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidServiceType = errors.New("unknown service type")
	ErrServiceCodeExists  = errors.New("service code already exists")
)

type CatalogUsecase interface {
	GetDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	GetServicesByType(ctx context.Context, serviceType string) ([]dto.ServiceResponse, error)
	GetServiceCategories(ctx context.Context) ([]dto.ServiceCategoryResponse, error)
	GetServicesByCategory(ctx context.Context, category string) ([]dto.ServiceResponse, error)
	CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, id int, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
}

type catalogUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
	serviceRepo    repository.ServiceRepository
	auditService   service.AuditService
}

func NewCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	departmentRepo repository.DepartmentRepository,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
) CatalogUsecase {
	return &catalogUsecase{
		db:             db,
		log:            log,
		departmentRepo: departmentRepo,
		serviceRepo:    serviceRepo,
		auditService:   auditService,
	}
}

func (u *catalogUsecase) GetDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := u.departmentRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}

	return converter.DepartmentsToResponses(departments), nil
}

func (u *catalogUsecase) GetServicesByType(ctx context.Context, serviceType string) ([]dto.ServiceResponse, error) {
	parsed, ok := entity.ParseServiceType(serviceType)
	if !ok {
		return nil, ErrInvalidServiceType
	}

	services, err := u.serviceRepo.FindActiveByType(u.db.WithContext(ctx), parsed)
	if err != nil {
		u.log.Warnf("Failed to find %s services: %+v", parsed, err)
		return nil, err
	}

	return converter.ServicesToResponses(services), nil
}

func (u *catalogUsecase) GetServiceCategories(ctx context.Context) ([]dto.ServiceCategoryResponse, error) {
	services, err := u.serviceRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}

	return converter.ServicesToCategories(services), nil
}

func (u *catalogUsecase) GetServicesByCategory(ctx context.Context, category string) ([]dto.ServiceResponse, error) {
	services, err := u.serviceRepo.FindActiveByCategory(u.db.WithContext(ctx), strings.TrimSpace(category))
	if err != nil {
		u.log.Warnf("Failed to find services of category %s: %+v", category, err)
		return nil, err
	}

	return converter.ServicesToResponses(services), nil
}

func (u *catalogUsecase) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	serviceType, ok := entity.ParseServiceType(req.Type)
	if !ok {
		return nil, ErrInvalidServiceType
	}

	svc := &entity.Service{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Type:        serviceType,
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Description: req.Description,
		IsActive:    true,
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.serviceRepo.Create(tx, svc); err != nil {
			if isDuplicateKeyError(err, "code") {
				return ErrServiceCodeExists
			}
			return err
		}
		return u.auditService.Record(tx, actorFrom(ctx), entity.AuditActionServiceCreate, serviceEntityID(svc.ID), entity.JSON{
			"name":  svc.Name,
			"price": svc.Price.StringFixed(2),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *catalogUsecase) UpdateService(ctx context.Context, id int, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	var updated *entity.Service

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		svc, err := u.serviceRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return ErrServiceNotFound
		}

		before := entity.JSON{"name": svc.Name, "category": svc.Category, "price": svc.Price.StringFixed(2), "is_active": svc.IsActive}

		if req.Name != nil {
			svc.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			svc.Category = strings.TrimSpace(*req.Category)
		}
		if req.Price != nil {
			svc.Price = *req.Price
		}
		if req.Description != nil {
			svc.Description = *req.Description
		}
		if req.IsActive != nil {
			svc.IsActive = *req.IsActive
		}

		if err := u.serviceRepo.Update(tx, svc); err != nil {
			return err
		}
		updated = svc

		return u.auditService.Record(tx, actorFrom(ctx), entity.AuditActionServiceUpdate, serviceEntityID(svc.ID), entity.JSON{
			"old_value": before,
			"new_value": entity.JSON{"name": svc.Name, "category": svc.Category, "price": svc.Price.StringFixed(2), "is_active": svc.IsActive},
		})
	})
	if err != nil {
		if !errors.Is(err, ErrServiceNotFound) {
			u.log.Warnf("Failed to update service %d: %+v", id, err)
		}
		return nil, err
	}

	return converter.ServiceToResponse(updated), nil
}
