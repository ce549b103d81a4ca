package converter

import (
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/domain/entity"
)

func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:    department.ID,
		Name:  department.Name,
		Price: department.Price,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = *DepartmentToResponse(&departments[i])
	}
	return responses
}

func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	if service == nil {
		return nil
	}

	return &dto.ServiceResponse{
		ID:          service.ID,
		Code:        service.Code,
		Name:        service.Name,
		Type:        string(service.Type),
		Category:    service.Category,
		Price:       service.Price,
		Description: service.Description,
		IsActive:    service.IsActive,
		UpdatedAt:   service.UpdatedAt,
	}
}

func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, len(services))
	for i := range services {
		responses[i] = *ServiceToResponse(&services[i])
	}
	return responses
}

// ServicesToCategories groups services by category, keeping the input order.
// Services are expected to be sorted by category already.
func ServicesToCategories(services []entity.Service) []dto.ServiceCategoryResponse {
	categories := make([]dto.ServiceCategoryResponse, 0)
	index := make(map[string]int)

	for i := range services {
		svc := ServiceToResponse(&services[i])
		pos, ok := index[svc.Category]
		if !ok {
			pos = len(categories)
			index[svc.Category] = pos
			categories = append(categories, dto.ServiceCategoryResponse{Category: svc.Category})
		}
		categories[pos].Services = append(categories[pos].Services, *svc)
	}

	return categories
}
