package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RolePlanner  = "planner"
	RoleEmployee = "employee"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	CompanyID   *string    `gorm:"type:uuid;index" json:"company_id"`     // Nullable - user may not have a company yet
	Role        string     `gorm:"not null;default:employee" json:"role"` // admin, planner, employee
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasCompany checks if the user has a company assigned
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != ""
}

// CanManageSchedule reports whether the user may create or modify shifts
func (u *User) CanManageSchedule() bool {
	return u.Role == RoleAdmin || u.Role == RolePlanner
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
