package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leave approval statuses, shared by all three leave sources
const (
	LeaveStatusPending  = "PENDING"
	LeaveStatusApproved = "APPROVED"
	LeaveStatusRejected = "REJECTED"
)

// ApprovedLeave is a full-day leave period. The range is inclusive on
// both ends. Only APPROVED rows gate availability.
type ApprovedLeave struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string  `gorm:"type:uuid;index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`

	Status string `gorm:"size:20;default:'PENDING';index" json:"status"`
	Reason string `gorm:"type:text" json:"reason,omitempty"`
}

// BeforeCreate hook to generate UUID
func (l *ApprovedLeave) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Covers reports whether the leave range includes the given date
func (l *ApprovedLeave) Covers(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

// TableName specifies the table name for ApprovedLeave model
func (ApprovedLeave) TableName() string {
	return "approved_leaves"
}
