package services

import (
	"context"
	"testing"

	"crew_shift_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLeaveTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Company{}, &models.User{},
		&models.ApprovedLeave{}, &models.ApprovedPermission{}, &models.LeaveRequest{})
	return db
}

func TestCreateLeaveRejectsInvertedRange(t *testing.T) {
	db := setupLeaveTestDB()

	err := CreateLeave(db, &models.ApprovedLeave{
		CompanyID: "co-1", UserID: "e1",
		StartDate: day("2026-09-10"), EndDate: day("2026-09-01"),
		Status: models.LeaveStatusApproved,
	})
	assert.Error(t, err)

	var count int64
	db.Model(&models.ApprovedLeave{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateLeaveSingleDayRange(t *testing.T) {
	db := setupLeaveTestDB()

	err := CreateLeave(db, &models.ApprovedLeave{
		CompanyID: "co-1", UserID: "e1",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})
	assert.NoError(t, err)
}

func TestCreatePermissionRequiresWindow(t *testing.T) {
	db := setupLeaveTestDB()

	err := CreatePermission(db, &models.ApprovedPermission{
		CompanyID: "co-1", UserID: "e1", Date: day("2026-09-07"),
	})
	assert.Error(t, err)

	err = CreatePermission(db, &models.ApprovedPermission{
		CompanyID: "co-1", UserID: "e1", Date: day("2026-09-07"),
		StartTime: "10:00", EndTime: "12:00",
		Status: models.LeaveStatusApproved,
	})
	assert.NoError(t, err)
}

func TestDecideLeaveRequest(t *testing.T) {
	db := setupLeaveTestDB()

	req := &models.LeaveRequest{
		CompanyID: "co-1", UserID: "e1", Kind: models.LeaveKindVacation,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-09"),
		Status: models.LeaveStatusPending,
	}
	assert.NoError(t, db.Create(req).Error)

	// 1. Invalid status is rejected
	_, err := DecideLeaveRequest(db, "co-1", req.ID, "MAYBE", "admin-1")
	assert.Error(t, err)

	// 2. Wrong company cannot decide
	_, err = DecideLeaveRequest(db, "other-co", req.ID, models.LeaveStatusApproved, "admin-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 3. Approval stamps the decider and timestamp
	decided, err := DecideLeaveRequest(db, "co-1", req.ID, models.LeaveStatusApproved, "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, decided.Status)
	assert.Equal(t, "admin-1", *decided.ApprovedByID)
	assert.NotNil(t, decided.ApprovedAt)

	// 4. Only now does the availability checker see it
	verdict, err := CheckAvailability(db, "e1", day("2026-09-08"))
	assert.NoError(t, err)
	assert.Equal(t, UnavailableVacation, verdict.Kind)
}

func TestDeleteLeaveRequestWithoutAttachment(t *testing.T) {
	db := setupLeaveTestDB()

	req := &models.LeaveRequest{
		CompanyID: "co-1", UserID: "e1", Kind: models.LeaveKindSickness,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusPending,
	}
	assert.NoError(t, db.Create(req).Error)

	assert.NoError(t, DeleteLeaveRequest(context.Background(), db, "co-1", req.ID))

	_, err := GetLeaveRequestByID(db, "co-1", req.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetCompanyLeaveRequestsScoped(t *testing.T) {
	db := setupLeaveTestDB()

	db.Create(&models.LeaveRequest{
		CompanyID: "co-1", UserID: "e1", Kind: models.LeaveKindVacation,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
	})
	db.Create(&models.LeaveRequest{
		CompanyID: "other-co", UserID: "e9", Kind: models.LeaveKindVacation,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
	})

	reqs, err := GetCompanyLeaveRequests(db, "co-1")
	assert.NoError(t, err)
	assert.Len(t, reqs, 1)
	assert.Equal(t, "e1", reqs[0].UserID)
}
