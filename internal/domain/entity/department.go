package entity

import "github.com/shopspring/decimal"

// Department is a clinical department whose price is charged for in-center visits
type Department struct {
	ID       int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`
}

func (Department) TableName() string {
	return "departments"
}
