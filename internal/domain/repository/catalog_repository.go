package repository

import (
	"medcenter-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	FindActive(db *gorm.DB) ([]entity.Department, error)
	FindByID(db *gorm.DB, id int) (*entity.Department, error)
}

type ServiceRepository interface {
	Create(db *gorm.DB, service *entity.Service) error
	Update(db *gorm.DB, service *entity.Service) error
	FindByID(db *gorm.DB, id int) (*entity.Service, error)
	FindActiveByIDs(db *gorm.DB, ids []int) ([]entity.Service, error)
	FindActiveByType(db *gorm.DB, serviceType entity.ServiceType) ([]entity.Service, error)
	FindActiveByCategory(db *gorm.DB, category string) ([]entity.Service, error)
	FindAllActive(db *gorm.DB) ([]entity.Service, error)
}
