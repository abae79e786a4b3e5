package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftTemplate is a named, reusable shift pattern from which concrete
// assignments are stamped. It is never scheduled by itself.
type ShiftTemplate struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string `gorm:"type:uuid;index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	Name      string `gorm:"not null" json:"name"`
	StartTime string `gorm:"not null" json:"start_time"` // "08:00"
	EndTime   string `gorm:"not null" json:"end_time"`   // "16:00"

	// Location snapshot. Address may legitimately be empty; assignments
	// copy it verbatim and display code handles the missing case.
	LocationName    string `gorm:"size:200" json:"location_name"`
	LocationAddress string `gorm:"size:300" json:"location_address"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (t *ShiftTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ShiftTemplate model
func (ShiftTemplate) TableName() string {
	return "shift_templates"
}
