package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"`
	Slug         string `gorm:"uniqueIndex;not null" json:"slug"`
	Timezone     string `gorm:"not null;default:UTC" json:"timezone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	ContactEmail string `gorm:"not null" json:"contact_email"`
	NoreplyEmail string `json:"noreply_email"`

	// Relationships
	Users []User `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate hook to generate UUID and slug
func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.ID == "" {
		co.ID = uuid.New().String()
	}
	if co.Slug == "" {
		co.Slug = generateSlug(tx, co.Name)
	}
	return nil
}

// generateSlug creates a URL-friendly slug from the company name
func generateSlug(tx *gorm.DB, name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")

	// Keep only alphanumeric and hyphens
	reg := regexp.MustCompile(`[^a-z0-9-]+`)
	slug = reg.ReplaceAllString(slug, "")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")

	if len(slug) > 50 {
		slug = slug[:50]
	}

	// Ensure uniqueness by appending a counter if needed
	base := slug
	for i := 2; ; i++ {
		var count int64
		tx.Model(&Company{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			break
		}
		slug = base + "-" + strconv.Itoa(i)
	}

	return slug
}

// TableName specifies the table name for Company model
func (Company) TableName() string {
	return "companies"
}
