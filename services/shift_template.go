package services

import (
	"crew_shift_app_go/models"

	"gorm.io/gorm"
)

// GetShiftTemplates fetches all active templates for a company
func GetShiftTemplates(dbConn *gorm.DB, companyID string) ([]models.ShiftTemplate, error) {
	var templates []models.ShiftTemplate
	err := dbConn.Where("company_id = ? AND is_active = ?", companyID, true).
		Order("name").
		Find(&templates).Error
	return templates, err
}

// GetShiftTemplateByID fetches a single template scoped to a company
func GetShiftTemplateByID(dbConn *gorm.DB, companyID, id string) (*models.ShiftTemplate, error) {
	var template models.ShiftTemplate
	err := dbConn.Where("company_id = ?", companyID).First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateShiftTemplate adds a new template
func CreateShiftTemplate(dbConn *gorm.DB, template *models.ShiftTemplate) error {
	return dbConn.Create(template).Error
}

// UpdateShiftTemplate updates an existing template
func UpdateShiftTemplate(dbConn *gorm.DB, template *models.ShiftTemplate) error {
	return dbConn.Save(template).Error
}

// DeleteShiftTemplate soft-deletes a template. Existing assignments keep
// their stamped copy of its times and location.
func DeleteShiftTemplate(dbConn *gorm.DB, companyID, id string) error {
	return dbConn.Where("company_id = ?", companyID).
		Delete(&models.ShiftTemplate{}, "id = ?", id).Error
}
