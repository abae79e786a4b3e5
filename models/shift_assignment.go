package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftAssignment is one employee working one shift on one date.
// Several assignments may exist for the same employee on the same date;
// exclusivity is advisory information for the planner, not a constraint.
type ShiftAssignment struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string  `gorm:"type:uuid;index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Name snapshot so the roster stays readable if the account changes
	UserName string `gorm:"size:200;not null" json:"user_name"`

	TemplateID *string        `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Template   *ShiftTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`

	// Date only, no time component
	Date time.Time `gorm:"type:date;index;not null" json:"date"`

	// Times stored exactly as entered, "HH:MM"
	StartTime string `gorm:"not null" json:"start_time"`
	EndTime   string `gorm:"not null" json:"end_time"`

	// Location copied verbatim from the template at build time
	LocationName    string `gorm:"size:200" json:"location_name"`
	LocationAddress string `gorm:"size:300" json:"location_address"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"-"`

	// Reminder tracking (set when the evening-before email went out)
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *ShiftAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ShiftAssignment model
func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}
