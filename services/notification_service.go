package services

import (
	"fmt"
	"time"

	"crew_shift_app_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) GetUnreadNotifications(companyID, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Order("created_at DESC").
		Limit(5).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, userID string, companyID string) error {
	now := time.Now()
	// Ensure the notification belongs to the company and (optionally) the user
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND company_id = ? AND (user_id IS NULL OR user_id = ?)", notificationID, companyID, userID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(companyID, userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount(companyID, userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("company_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", companyID, userID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}

// NotifyAssignments writes one in-app notification per created
// assignment, addressed to the assigned employee.
func (s *NotificationService) NotifyAssignments(assignments []models.ShiftAssignment) error {
	for i := range assignments {
		a := assignments[i]
		userID := a.UserID
		assignmentID := a.ID
		n := models.Notification{
			CompanyID:    a.CompanyID,
			UserID:       &userID,
			AssignmentID: &assignmentID,
			Type:         models.NotificationTypeShiftAssigned,
			Title:        "New shift assigned",
			Message: fmt.Sprintf("You are scheduled on %s from %s to %s at %s.",
				a.Date.Format("Monday, January 2"), a.StartTime, a.EndTime, a.LocationName),
			LinkURL: "/schedule?start=" + a.Date.Format("2006-01-02"),
		}
		if err := s.CreateNotification(&n); err != nil {
			return fmt.Errorf("failed to create assignment notification: %w", err)
		}
	}
	return nil
}
