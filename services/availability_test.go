package services

import (
	"context"
	"testing"
	"time"

	"crew_shift_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAvailabilityTestDB() *gorm.DB {
	// Unique shared memory name isolates tests while allowing shared
	// cache for the concurrent source reads in CheckRoster
	dbName := "mem_" + uuid.New().String()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(
		&models.Company{}, &models.User{},
		&models.ApprovedLeave{}, &models.ApprovedPermission{},
		&models.LeaveRequest{}, &models.ShiftAssignment{},
	)
	return db
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckAvailabilityNoRecords(t *testing.T) {
	db := setupAvailabilityTestDB()

	verdict, err := CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.True(t, verdict.Available)
	assert.Empty(t, verdict.Kind)
}

func TestCheckAvailabilityFullDayLeave(t *testing.T) {
	db := setupAvailabilityTestDB()

	db.Create(&models.ApprovedLeave{
		CompanyID: "co-1", UserID: "user-1",
		StartDate: day("2026-09-01"), EndDate: day("2026-09-10"),
		Status: models.LeaveStatusApproved,
	})

	verdict, err := CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, UnavailableFullDayLeave, verdict.Kind)
	assert.Equal(t, day("2026-09-01"), *verdict.RangeStart)
	assert.Equal(t, day("2026-09-10"), *verdict.RangeEnd)

	// Day outside the range is free
	verdict, err = CheckAvailability(db, "user-1", day("2026-09-11"))
	assert.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestCheckAvailabilityPermissionWindow(t *testing.T) {
	db := setupAvailabilityTestDB()

	db.Create(&models.ApprovedPermission{
		CompanyID: "co-1", UserID: "user-1",
		Date: day("2026-09-07"), StartTime: "10:00", EndTime: "12:30",
		Status: models.LeaveStatusApproved,
	})

	verdict, err := CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, UnavailablePermission, verdict.Kind)
	assert.Equal(t, "10:00", verdict.WindowStart)
	assert.Equal(t, "12:30", verdict.WindowEnd)
}

func TestCheckAvailabilityCombinedRequestKinds(t *testing.T) {
	db := setupAvailabilityTestDB()

	cases := []struct {
		userID string
		kind   string
		expect string
	}{
		{"user-v", models.LeaveKindVacation, UnavailableVacation},
		{"user-p", models.LeaveKindPermission, UnavailablePermission},
		{"user-s", models.LeaveKindSickness, UnavailableSickness},
		{"user-i", models.LeaveKindInjury, UnavailableInjury},
		{"user-x", "SABBATICAL", UnavailableAbsent}, // unrecognized kind
	}
	for _, tc := range cases {
		db.Create(&models.LeaveRequest{
			CompanyID: "co-1", UserID: tc.userID, Kind: tc.kind,
			StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
			Status: models.LeaveStatusApproved,
		})
	}

	for _, tc := range cases {
		verdict, err := CheckAvailability(db, tc.userID, day("2026-09-07"))
		assert.NoError(t, err)
		assert.False(t, verdict.Available, tc.userID)
		assert.Equal(t, tc.expect, verdict.Kind, tc.userID)
	}
}

func TestCheckAvailabilityPendingIgnored(t *testing.T) {
	db := setupAvailabilityTestDB()

	db.Create(&models.ApprovedLeave{
		CompanyID: "co-1", UserID: "user-1",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusPending,
	})
	db.Create(&models.LeaveRequest{
		CompanyID: "co-1", UserID: "user-1", Kind: models.LeaveKindVacation,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusRejected,
	})

	verdict, err := CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestCheckAvailabilityPriorityOrder(t *testing.T) {
	db := setupAvailabilityTestDB()

	// All three sources cover the same date; only the highest priority
	// kind may surface
	db.Create(&models.ApprovedLeave{
		CompanyID: "co-1", UserID: "user-1",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})
	db.Create(&models.ApprovedPermission{
		CompanyID: "co-1", UserID: "user-1",
		Date: day("2026-09-07"), StartTime: "09:00", EndTime: "11:00",
		Status: models.LeaveStatusApproved,
	})
	db.Create(&models.LeaveRequest{
		CompanyID: "co-1", UserID: "user-1", Kind: models.LeaveKindSickness,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})

	verdict, err := CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.Equal(t, UnavailableFullDayLeave, verdict.Kind)

	// With the full-day leave gone the permission wins over the request
	db.Where("user_id = ?", "user-1").Delete(&models.ApprovedLeave{})
	verdict, err = CheckAvailability(db, "user-1", day("2026-09-07"))
	assert.NoError(t, err)
	assert.Equal(t, UnavailablePermission, verdict.Kind)
}

func TestCheckAvailabilityNormalizesTime(t *testing.T) {
	db := setupAvailabilityTestDB()

	db.Create(&models.ApprovedLeave{
		CompanyID: "co-1", UserID: "user-1",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})

	// A mid-afternoon timestamp still matches the calendar day
	afternoon := time.Date(2026, 9, 7, 15, 42, 0, 0, time.UTC)
	verdict, err := CheckAvailability(db, "user-1", afternoon)
	assert.NoError(t, err)
	assert.Equal(t, UnavailableFullDayLeave, verdict.Kind)
}

func TestCheckRosterMatchesSingleChecks(t *testing.T) {
	db := setupAvailabilityTestDB()
	companyID := "co-1"
	users := []string{"user-a", "user-b", "user-c", "user-d"}

	db.Create(&models.ApprovedLeave{
		CompanyID: companyID, UserID: "user-a",
		StartDate: day("2026-09-01"), EndDate: day("2026-09-10"),
		Status: models.LeaveStatusApproved,
	})
	db.Create(&models.ApprovedPermission{
		CompanyID: companyID, UserID: "user-b",
		Date: day("2026-09-07"), StartTime: "10:00", EndTime: "12:00",
		Status: models.LeaveStatusApproved,
	})
	db.Create(&models.LeaveRequest{
		CompanyID: companyID, UserID: "user-c", Kind: models.LeaveKindInjury,
		StartDate: day("2026-09-07"), EndDate: day("2026-09-09"),
		Status: models.LeaveStatusApproved,
	})

	result, err := CheckRoster(context.Background(), db, companyID, day("2026-09-07"), users, CheckOptions{})
	assert.NoError(t, err)
	assert.Len(t, result.Verdicts, 4)
	assert.Empty(t, result.SkippedSources)

	// Batch verdicts must mirror the per-employee checks exactly
	for _, userID := range users {
		single, err := CheckAvailability(db, userID, day("2026-09-07"))
		assert.NoError(t, err)
		assert.Equal(t, single, result.Verdicts[userID], userID)
	}

	assert.Equal(t, UnavailableFullDayLeave, result.Verdicts["user-a"].Kind)
	assert.Equal(t, UnavailablePermission, result.Verdicts["user-b"].Kind)
	assert.Equal(t, UnavailableInjury, result.Verdicts["user-c"].Kind)
	assert.True(t, result.Verdicts["user-d"].Available)
}

func TestCheckRosterAssignedIsSeparateSignal(t *testing.T) {
	db := setupAvailabilityTestDB()
	companyID := "co-1"

	db.Create(&models.ShiftAssignment{
		CompanyID: companyID, UserID: "user-a", UserName: "Alice",
		Date: day("2026-09-07"), StartTime: "08:00", EndTime: "16:00",
	})

	result, err := CheckRoster(context.Background(), db, companyID, day("2026-09-07"),
		[]string{"user-a"}, CheckOptions{})
	assert.NoError(t, err)

	// Already assigned, yet still available: double booking is a planner
	// decision, not an absence
	assert.True(t, result.Verdicts["user-a"].Available)
	assert.Len(t, result.Assigned["user-a"], 1)
	assert.Equal(t, "08:00", result.Assigned["user-a"][0].StartTime)
}

func TestCheckRosterScopedToCompany(t *testing.T) {
	db := setupAvailabilityTestDB()

	db.Create(&models.ApprovedLeave{
		CompanyID: "other-co", UserID: "user-a",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})

	result, err := CheckRoster(context.Background(), db, "co-1", day("2026-09-07"),
		[]string{"user-a"}, CheckOptions{})
	assert.NoError(t, err)
	assert.True(t, result.Verdicts["user-a"].Available)
}

func TestCheckRosterFailOpenSkipsBrokenSource(t *testing.T) {
	db := setupAvailabilityTestDB()

	// Drop one leave source so its read fails
	assert.NoError(t, db.Migrator().DropTable(&models.LeaveRequest{}))

	db.Create(&models.ApprovedLeave{
		CompanyID: "co-1", UserID: "user-a",
		StartDate: day("2026-09-07"), EndDate: day("2026-09-07"),
		Status: models.LeaveStatusApproved,
	})

	// Fail-open: the broken source is skipped and the rest still answers
	result, err := CheckRoster(context.Background(), db, "co-1", day("2026-09-07"),
		[]string{"user-a", "user-b"}, CheckOptions{FailOpen: true})
	assert.NoError(t, err)
	assert.Contains(t, result.SkippedSources, "leave_requests")
	assert.Equal(t, UnavailableFullDayLeave, result.Verdicts["user-a"].Kind)
	assert.True(t, result.Verdicts["user-b"].Available)

	// Fail-closed: the same failure aborts the whole check
	_, err = CheckRoster(context.Background(), db, "co-1", day("2026-09-07"),
		[]string{"user-a"}, CheckOptions{FailOpen: false})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "leave_requests")
}

func TestEvaluateVerdictRechecksDateCoverage(t *testing.T) {
	covering := models.ApprovedLeave{
		StartDate: day("2026-09-01"), EndDate: day("2026-09-10"),
		Status: models.LeaveStatusApproved,
	}
	stale := models.ApprovedLeave{
		StartDate: day("2026-08-01"), EndDate: day("2026-08-05"),
		Status: models.LeaveStatusApproved,
	}

	// A record outside the day never produces a verdict, even when it
	// is handed in first
	verdict := evaluateVerdict(day("2026-09-07"),
		[]models.ApprovedLeave{stale, covering}, nil, nil)
	assert.False(t, verdict.Available)
	assert.Equal(t, UnavailableFullDayLeave, verdict.Kind)
	assert.Equal(t, day("2026-09-01"), *verdict.RangeStart)

	verdict = evaluateVerdict(day("2026-09-07"),
		[]models.ApprovedLeave{stale}, nil, nil)
	assert.True(t, verdict.Available)

	wrongDayPerm := models.ApprovedPermission{
		Date: day("2026-09-08"), StartTime: "09:00", EndTime: "11:00",
	}
	verdict = evaluateVerdict(day("2026-09-07"),
		nil, []models.ApprovedPermission{wrongDayPerm}, nil)
	assert.True(t, verdict.Available)

	staleReq := models.LeaveRequest{
		Kind:      models.LeaveKindSickness,
		StartDate: day("2026-08-20"), EndDate: day("2026-08-25"),
	}
	verdict = evaluateVerdict(day("2026-09-07"),
		nil, nil, []models.LeaveRequest{staleReq})
	assert.True(t, verdict.Available)
}

func TestApprovedLeaveCoversBoundaryDays(t *testing.T) {
	leave := models.ApprovedLeave{
		StartDate: day("2026-09-01"), EndDate: day("2026-09-10"),
	}
	assert.True(t, leave.Covers(day("2026-09-01")))
	assert.True(t, leave.Covers(day("2026-09-10")))
	assert.False(t, leave.Covers(day("2026-08-31")))
	assert.False(t, leave.Covers(day("2026-09-11")))
}

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2026, 9, 7, 23, 59, 59, 999, time.FixedZone("X", 3600))
	normalized := NormalizeDate(ts)
	assert.Equal(t, 2026, normalized.Year())
	assert.Equal(t, time.September, normalized.Month())
	assert.Equal(t, 7, normalized.Day())
	assert.Equal(t, 0, normalized.Hour())
	assert.Equal(t, time.UTC, normalized.Location())
}
