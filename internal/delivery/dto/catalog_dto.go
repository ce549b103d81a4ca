package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepartmentResponse struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ServiceResponse struct {
	ID          int             `json:"id"`
	Code        string          `json:"code,omitempty"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ServiceCategoryResponse struct {
	Category string            `json:"category"`
	Services []ServiceResponse `json:"services"`
}

type CreateServiceRequest struct {
	Code        string          `json:"code" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=255"`
	Type        string          `json:"type" validate:"required"`
	Category    string          `json:"category" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Description string          `json:"description"`
}

// UpdateServiceRequest only changes the fields that are present
type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
}
