package services

import (
	"errors"
	"fmt"
	"time"

	"crew_shift_app_go/models"

	"gorm.io/gorm"
)

// Validation errors surfaced before any write is attempted
var (
	ErrNoTemplate    = errors.New("no shift template selected")
	ErrNoSelections  = errors.New("no employees selected")
	ErrEmptyTimeSpan = errors.New("shift start and end times are required")
)

// TimeWindow is a per-employee override of the template's default times.
type TimeWindow struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "17:00"
}

// Selection is one chosen employee, with an optional time override.
// Selections are ordered; duplicates are not merged.
type Selection struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"user_name"`
	Override *TimeWindow `json:"override,omitempty"`
}

// BuildAssignments stamps one ShiftAssignment per selection from the
// template and target date. Pure: no I/O, no dedup. An override replaces
// the template's times for that employee only; location always comes
// from the template verbatim, including an empty address.
func BuildAssignments(companyID string, template *models.ShiftTemplate, date time.Time, selections []Selection, createdByID string) []models.ShiftAssignment {
	day := NormalizeDate(date)

	assignments := make([]models.ShiftAssignment, 0, len(selections))
	for _, sel := range selections {
		start, end := template.StartTime, template.EndTime
		if sel.Override != nil {
			start, end = sel.Override.Start, sel.Override.End
		}

		templateID := template.ID
		a := models.ShiftAssignment{
			CompanyID:       companyID,
			UserID:          sel.UserID,
			UserName:        sel.UserName,
			TemplateID:      &templateID,
			Date:            day,
			StartTime:       start,
			EndTime:         end,
			LocationName:    template.LocationName,
			LocationAddress: template.LocationAddress,
		}
		if createdByID != "" {
			id := createdByID
			a.CreatedByID = &id
		}
		assignments = append(assignments, a)
	}

	return assignments
}

// ValidateBatchInput rejects incomplete input before any request is
// issued against the store.
func ValidateBatchInput(template *models.ShiftTemplate, selections []Selection) error {
	if template == nil {
		return ErrNoTemplate
	}
	if template.StartTime == "" || template.EndTime == "" {
		return ErrEmptyTimeSpan
	}
	if len(selections) == 0 {
		return ErrNoSelections
	}
	return nil
}

// CreateAssignments persists a built batch as one all-or-nothing insert.
// gorm wraps the multi-row create in a transaction, so a rejected batch
// leaves no partial rows behind. No retry is attempted.
func CreateAssignments(dbConn *gorm.DB, assignments []models.ShiftAssignment) error {
	if len(assignments) == 0 {
		return ErrNoSelections
	}
	if err := dbConn.Create(&assignments).Error; err != nil {
		return fmt.Errorf("failed to insert shift assignments: %w", err)
	}
	return nil
}

// GetScheduleRange returns all assignments for a company between two
// dates inclusive, ordered for the weekly grid.
func GetScheduleRange(dbConn *gorm.DB, companyID string, start, end time.Time) ([]models.ShiftAssignment, error) {
	var assignments []models.ShiftAssignment
	err := dbConn.Where("company_id = ? AND date >= ? AND date <= ?",
		companyID, NormalizeDate(start), NormalizeDate(end)).
		Order("date, start_time, user_name").
		Find(&assignments).Error
	return assignments, err
}

// GetUserScheduleRange returns one employee's assignments in a date range
func GetUserScheduleRange(dbConn *gorm.DB, companyID, userID string, start, end time.Time) ([]models.ShiftAssignment, error) {
	var assignments []models.ShiftAssignment
	err := dbConn.Where("company_id = ? AND user_id = ? AND date >= ? AND date <= ?",
		companyID, userID, NormalizeDate(start), NormalizeDate(end)).
		Order("date, start_time").
		Find(&assignments).Error
	return assignments, err
}

// GetAssignmentByID fetches a single assignment scoped to a company
func GetAssignmentByID(dbConn *gorm.DB, companyID, id string) (*models.ShiftAssignment, error) {
	var assignment models.ShiftAssignment
	err := dbConn.Where("company_id = ?", companyID).First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateAssignment applies an edit to a single assignment (one update
// per action, matching the schedule screen's edit flow)
func UpdateAssignment(dbConn *gorm.DB, assignment *models.ShiftAssignment) error {
	if err := dbConn.Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to update shift assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes a single assignment scoped to a company
func DeleteAssignment(dbConn *gorm.DB, companyID, id string) error {
	result := dbConn.Where("company_id = ? AND id = ?", companyID, id).
		Delete(&models.ShiftAssignment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete shift assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
