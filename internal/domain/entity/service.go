package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType groups catalog services the booking form offers
type ServiceType string

const (
	ServiceTypeLab        ServiceType = "Lab"
	ServiceTypeXray       ServiceType = "Xray"
	ServiceTypeUltrasound ServiceType = "Ultrasound"
	ServiceTypeHome       ServiceType = "Home"
)

// ParseServiceType resolves a case-insensitive type name.
func ParseServiceType(raw string) (ServiceType, bool) {
	for _, t := range []ServiceType{ServiceTypeLab, ServiceTypeXray, ServiceTypeUltrasound, ServiceTypeHome} {
		if strings.EqualFold(string(t), raw) {
			return t, true
		}
	}
	return "", false
}

// Service is a priced catalog entry (lab test, x-ray, ultrasound, home visit option)
type Service struct {
	ID          int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex" json:"code,omitempty"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Type        ServiceType     `gorm:"type:varchar(20);not null;index" json:"type"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
