package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"crew_shift_app_go/models"

	"gorm.io/gorm"
)

// GetCompanyLeaves fetches full-day leaves for a company, newest first
func GetCompanyLeaves(dbConn *gorm.DB, companyID string) ([]models.ApprovedLeave, error) {
	var leaves []models.ApprovedLeave
	err := dbConn.Preload("User").
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

// CreateLeave adds a full-day leave period. End may not precede start.
func CreateLeave(dbConn *gorm.DB, leave *models.ApprovedLeave) error {
	leave.StartDate = NormalizeDate(leave.StartDate)
	leave.EndDate = NormalizeDate(leave.EndDate)
	if leave.EndDate.Before(leave.StartDate) {
		return fmt.Errorf("leave end date %s precedes start date %s",
			leave.EndDate.Format("2006-01-02"), leave.StartDate.Format("2006-01-02"))
	}
	return dbConn.Create(leave).Error
}

// GetCompanyPermissions fetches single-day permissions for a company
func GetCompanyPermissions(dbConn *gorm.DB, companyID string) ([]models.ApprovedPermission, error) {
	var perms []models.ApprovedPermission
	err := dbConn.Preload("User").
		Where("company_id = ?", companyID).
		Order("date DESC").
		Find(&perms).Error
	return perms, err
}

// CreatePermission adds a single-day permission with a time window
func CreatePermission(dbConn *gorm.DB, perm *models.ApprovedPermission) error {
	perm.Date = NormalizeDate(perm.Date)
	if perm.StartTime == "" || perm.EndTime == "" {
		return fmt.Errorf("permission requires a time window")
	}
	return dbConn.Create(perm).Error
}

// GetCompanyLeaveRequests fetches combined leave requests for a company
func GetCompanyLeaveRequests(dbConn *gorm.DB, companyID string) ([]models.LeaveRequest, error) {
	var reqs []models.LeaveRequest
	err := dbConn.Preload("User").
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&reqs).Error
	return reqs, err
}

// GetLeaveRequestByID fetches a single combined request scoped to a company
func GetLeaveRequestByID(dbConn *gorm.DB, companyID, id string) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	err := dbConn.Where("company_id = ?", companyID).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateLeaveRequest adds a combined leave request (any of the four kinds)
func CreateLeaveRequest(dbConn *gorm.DB, req *models.LeaveRequest) error {
	req.StartDate = NormalizeDate(req.StartDate)
	req.EndDate = NormalizeDate(req.EndDate)
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("request end date %s precedes start date %s",
			req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}
	return dbConn.Create(req).Error
}

// DecideLeaveRequest approves or rejects a combined request. Only
// approved rows are ever seen by the availability checker.
func DecideLeaveRequest(dbConn *gorm.DB, companyID, id, status, decidedByID string) (*models.LeaveRequest, error) {
	if status != models.LeaveStatusApproved && status != models.LeaveStatusRejected {
		return nil, fmt.Errorf("invalid decision status: %s", status)
	}

	req, err := GetLeaveRequestByID(dbConn, companyID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req.Status = status
	req.ApprovedByID = &decidedByID
	req.ApprovedAt = &now

	if err := dbConn.Save(req).Error; err != nil {
		return nil, fmt.Errorf("failed to save leave decision: %w", err)
	}
	return req, nil
}

// DeleteLeaveRequest removes a combined request and its attachment blob
func DeleteLeaveRequest(ctx context.Context, dbConn *gorm.DB, companyID, id string) error {
	req, err := GetLeaveRequestByID(dbConn, companyID, id)
	if err != nil {
		return err
	}

	if req.HasAttachment() && Storage != nil {
		if err := Storage.Delete(ctx, *req.AttachmentKey); err != nil {
			// The row still goes away; orphaned blobs are swept later
			log.Printf("[WARNING] Failed to delete attachment %s: %v", *req.AttachmentKey, err)
		}
	}

	return dbConn.Delete(req).Error
}
