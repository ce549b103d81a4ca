package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient holds the identity captured by the booking form. Patients are
// reused across bookings by medical record number and never deleted here.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Age         int       `gorm:"not null" json:"age"`
	Sex         string    `gorm:"type:varchar(10);not null" json:"sex"`
	PhoneNumber string    `gorm:"type:varchar(20);not null;index" json:"phone_number"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	MRN         *string   `gorm:"column:mrn;type:varchar(50);uniqueIndex" json:"mrn,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Sex constants
const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"
)
