package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovedPermission is a short leave for part of a single day
// (e.g. a medical appointment). It carries a time window, not a range.
type ApprovedPermission struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string  `gorm:"type:uuid;index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Date only, no time component
	Date time.Time `gorm:"type:date;not null;index" json:"date"`

	StartTime string `gorm:"not null" json:"start_time"` // "10:00"
	EndTime   string `gorm:"not null" json:"end_time"`   // "12:30"

	Status string `gorm:"size:20;default:'PENDING';index" json:"status"`
	Reason string `gorm:"type:text" json:"reason,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *ApprovedPermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ApprovedPermission model
func (ApprovedPermission) TableName() string {
	return "approved_permissions"
}
