package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetRosterAvailabilityHandler(t *testing.T) {
	database := setupTestDB(t)
	company, planner := seedCompanyAndPlanner(database)

	database.Create(&models.User{
		ID: "e1", Name: "Elena", Email: "elena@acme.test", Password: "x",
		CompanyID: stringToPtr(company.ID), Role: models.RoleEmployee, IsActive: true,
	})
	database.Create(&models.ApprovedLeave{
		CompanyID: company.ID, UserID: "e1",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.LeaveStatusApproved,
	})

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/availability?date=2026-09-07&user_ids=e1,planner-test", nil)
		c.Set("user", planner)
		c.Set("company", company)

		err := GetRosterAvailabilityHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.RosterAvailability
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Verdicts["e1"].Available)
		assert.Equal(t, services.UnavailableFullDayLeave, result.Verdicts["e1"].Kind)
		assert.True(t, result.Verdicts["planner-test"].Available)
	})

	t.Run("DefaultsToWholeRoster", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/availability?date=2026-09-07", nil)
		c.Set("user", planner)
		c.Set("company", company)

		err := GetRosterAvailabilityHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.RosterAvailability
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Len(t, result.Verdicts, 2)
	})

	t.Run("MissingDate", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/availability", nil)
		c.Set("user", planner)
		c.Set("company", company)

		err := GetRosterAvailabilityHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("BadDate", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/availability?date=07-09-2026", nil)
		c.Set("user", planner)
		c.Set("company", company)

		err := GetRosterAvailabilityHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetUserAvailabilityHandler(t *testing.T) {
	database := setupTestDB(t)
	company, planner := seedCompanyAndPlanner(database)

	database.Create(&models.User{
		ID: "e1", Name: "Elena", Email: "elena@acme.test", Password: "x",
		CompanyID: stringToPtr(company.ID), Role: models.RoleEmployee, IsActive: true,
	})
	database.Create(&models.ApprovedPermission{
		CompanyID: company.ID, UserID: "e1",
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00", EndTime: "12:00",
		Status: models.LeaveStatusApproved,
	})

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/availability/e1?date=2026-09-07", nil)
		c.SetParamNames("id")
		c.SetParamValues("e1")
		c.Set("user", planner)
		c.Set("company", company)

		err := GetUserAvailabilityHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var verdict services.Verdict
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
		assert.False(t, verdict.Available)
		assert.Equal(t, services.UnavailablePermission, verdict.Kind)
		assert.Equal(t, "10:00", verdict.WindowStart)
	})

	t.Run("UnknownEmployee", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/availability/ghost?date=2026-09-07", nil)
		c.SetParamNames("id")
		c.SetParamValues("ghost")
		c.Set("user", planner)
		c.Set("company", company)

		err := GetUserAvailabilityHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
