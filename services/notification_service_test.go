package services

import (
	"testing"

	"crew_shift_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Company{}, &models.User{},
		&models.ShiftAssignment{}, &models.Notification{})
	return db
}

func TestNotifyAssignments(t *testing.T) {
	db := setupNotificationTestDB()
	svc := NewNotificationService(db)

	assignments := []models.ShiftAssignment{
		{ID: "a1", CompanyID: "co-1", UserID: "e1", UserName: "Elena",
			Date: day("2026-09-07"), StartTime: "08:00", EndTime: "16:00", LocationName: "Warehouse A"},
		{ID: "a2", CompanyID: "co-1", UserID: "e2", UserName: "Marco",
			Date: day("2026-09-07"), StartTime: "10:00", EndTime: "14:00", LocationName: "Warehouse A"},
	}
	assert.NoError(t, svc.NotifyAssignments(assignments))

	// One targeted notification per employee
	forElena, err := svc.GetUnreadNotifications("co-1", "e1")
	assert.NoError(t, err)
	assert.Len(t, forElena, 1)
	assert.Equal(t, models.NotificationTypeShiftAssigned, forElena[0].Type)
	assert.Contains(t, forElena[0].Message, "08:00")
	assert.Equal(t, "a1", *forElena[0].AssignmentID)

	count, err := svc.GetNotificationCount("co-1", "e2")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationReadTracking(t *testing.T) {
	db := setupNotificationTestDB()
	svc := NewNotificationService(db)

	userID := "e1"
	n := &models.Notification{
		CompanyID: "co-1", UserID: &userID,
		Type: models.NotificationTypeSystem, Title: "Hello", Message: "hi",
	}
	assert.NoError(t, svc.CreateNotification(n))

	// Another user in the same company cannot mark it read
	assert.NoError(t, svc.MarkAsRead(n.ID, "e2", "co-1"))
	count, _ := svc.GetNotificationCount("co-1", "e1")
	assert.Equal(t, int64(1), count)

	assert.NoError(t, svc.MarkAsRead(n.ID, "e1", "co-1"))
	count, _ = svc.GetNotificationCount("co-1", "e1")
	assert.Equal(t, int64(0), count)
}

func TestCompanyWideNotificationVisibleToEveryone(t *testing.T) {
	db := setupNotificationTestDB()
	svc := NewNotificationService(db)

	n := &models.Notification{
		CompanyID: "co-1", UserID: nil, // broadcast
		Type: models.NotificationTypeSystem, Title: "Maintenance", Message: "tonight",
	}
	assert.NoError(t, svc.CreateNotification(n))

	for _, userID := range []string{"e1", "e2"} {
		list, err := svc.GetUnreadNotifications("co-1", userID)
		assert.NoError(t, err)
		assert.Len(t, list, 1, userID)
	}

	// Other companies never see it
	count, _ := svc.GetNotificationCount("co-2", "e9")
	assert.Equal(t, int64(0), count)
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupNotificationTestDB()
	svc := NewNotificationService(db)

	userID := "e1"
	for i := 0; i < 3; i++ {
		svc.CreateNotification(&models.Notification{
			CompanyID: "co-1", UserID: &userID,
			Type: models.NotificationTypeSystem, Title: "n", Message: "m",
		})
	}

	assert.NoError(t, svc.MarkAllAsRead("co-1", "e1"))
	count, _ := svc.GetNotificationCount("co-1", "e1")
	assert.Equal(t, int64(0), count)
}
