package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeShiftAssigned = "SHIFT_ASSIGNED"
	NotificationTypeShiftChanged  = "SHIFT_CHANGED"
	NotificationTypeShiftRemoved  = "SHIFT_REMOVED"
	NotificationTypeLeaveDecision = "LEAVE_DECISION"
	NotificationTypeSystem        = "SYSTEM"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting
	CompanyID string  `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    *string `gorm:"type:uuid;index" json:"user_id,omitempty"` // null = all company users

	// Context
	AssignmentID *string `gorm:"type:uuid" json:"assignment_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	LinkURL string `json:"link_url,omitempty"` // e.g., "/schedule?start=2026-09-07"

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relationships
	Company    Company          `gorm:"foreignKey:CompanyID" json:"-"`
	User       *User            `gorm:"foreignKey:UserID" json:"-"`
	Assignment *ShiftAssignment `gorm:"foreignKey:AssignmentID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
