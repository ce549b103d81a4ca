package repository

import (
	"errors"

	"medcenter-booking/internal/domain/entity"
	domainRepo "medcenter-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type departmentRepository struct{}

func NewDepartmentRepository() domainRepo.DepartmentRepository {
	return &departmentRepository{}
}

func (r *departmentRepository) FindActive(db *gorm.DB) ([]entity.Department, error) {
	var departments []entity.Department
	err := db.Where("is_active = ?", true).Order("name ASC").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) FindByID(db *gorm.DB, id int) (*entity.Department, error) {
	var department entity.Department
	err := db.Where("id = ? AND is_active = ?", id, true).First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

type serviceRepository struct{}

func NewServiceRepository() domainRepo.ServiceRepository {
	return &serviceRepository{}
}

func (r *serviceRepository) Create(db *gorm.DB, service *entity.Service) error {
	return db.Create(service).Error
}

func (r *serviceRepository) Update(db *gorm.DB, service *entity.Service) error {
	return db.Save(service).Error
}

func (r *serviceRepository) FindByID(db *gorm.DB, id int) (*entity.Service, error) {
	var service entity.Service
	err := db.Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) FindActiveByIDs(db *gorm.DB, ids []int) ([]entity.Service, error) {
	var services []entity.Service
	if len(ids) == 0 {
		return services, nil
	}
	err := db.Where("id IN ? AND is_active = ?", ids, true).Order("id ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) FindActiveByType(db *gorm.DB, serviceType entity.ServiceType) ([]entity.Service, error) {
	var services []entity.Service
	err := db.Where("type = ? AND is_active = ?", serviceType, true).Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) FindActiveByCategory(db *gorm.DB, category string) ([]entity.Service, error) {
	var services []entity.Service
	err := db.Where("category = ? AND is_active = ?", category, true).Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) FindAllActive(db *gorm.DB) ([]entity.Service, error) {
	var services []entity.Service
	err := db.Where("is_active = ?", true).Order("category ASC, name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}
