package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leave request kinds. The combined table records all four as one
// polymorphic row type; unrecognized values classify as generic absence.
const (
	LeaveKindVacation   = "VACATION"
	LeaveKindPermission = "PERMISSION"
	LeaveKindSickness   = "SICKNESS"
	LeaveKindInjury     = "INJURY"
)

// LeaveRequest is the combined leave-request record covering vacation,
// permission, sickness and injury in a single table. It coexists with
// the dedicated ApprovedLeave and ApprovedPermission tables; the
// availability checker consults it last.
type LeaveRequest struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string  `gorm:"type:uuid;index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Kind string `gorm:"size:20;not null" json:"kind"`

	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`

	Status string `gorm:"size:20;default:'PENDING';index" json:"status"`
	Reason string `gorm:"type:text" json:"reason,omitempty"`

	// Optional supporting document (e.g. medical certificate)
	AttachmentKey  *string `gorm:"size:500" json:"attachment_key,omitempty"`
	AttachmentName *string `gorm:"size:255" json:"attachment_name,omitempty"`

	// Rows past this point are swept by the cleanup job together with
	// their attachment blob
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	ApprovedByID *string    `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	ApprovedBy   *User      `gorm:"foreignKey:ApprovedByID" json:"-"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Covers reports whether the request range includes the given date
func (r *LeaveRequest) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}

// HasAttachment reports whether a stored blob is referenced
func (r *LeaveRequest) HasAttachment() bool {
	return r.AttachmentKey != nil && *r.AttachmentKey != ""
}

// TableName specifies the table name for LeaveRequest model
func (LeaveRequest) TableName() string {
	return "leave_requests"
}
