package handlers

import (
	"net/http"
	"strings"
	"time"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetRosterAvailabilityHandler checks every requested employee for one
// date. Called when the assignment dialog opens; the result gates which
// employees the planner may select. With no user_ids parameter the whole
// company roster is checked.
func GetRosterAvailabilityHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Date is required")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
	}

	var userIDs []string
	if raw := c.QueryParam("user_ids"); raw != "" {
		userIDs = strings.Split(raw, ",")
	} else {
		var roster []models.User
		if err := middleware.GetCompanyScopedQuery(c, db.DB).Where("is_active = ?", true).
			Find(&roster).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load roster")
		}
		for _, u := range roster {
			userIDs = append(userIDs, u.ID)
		}
	}

	opts := services.CheckOptions{FailOpen: true}
	if cfg, ok := c.Get("config").(*config.Config); ok {
		opts.FailOpen = cfg.AvailabilityFailOpen
	}

	result, err := services.CheckRoster(c.Request().Context(), db.DB, company.ID, date, userIDs, opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check availability")
	}

	return c.JSON(http.StatusOK, result)
}

// GetUserAvailabilityHandler checks a single employee for one date
func GetUserAvailabilityHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	userID := c.Param("id")

	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Date is required")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
	}

	// Verify the target belongs to this company before checking
	var target models.User
	if err := db.DB.Where("company_id = ?", company.ID).First(&target, "id = ?", userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}

	verdict, err := services.CheckAvailability(db.DB, userID, date)
	if err != nil {
		failOpen := true
		if cfg, ok := c.Get("config").(*config.Config); ok {
			failOpen = cfg.AvailabilityFailOpen
		}
		if !failOpen {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check availability")
		}
		// Fail open: report available rather than block scheduling
		c.Logger().Warnf("availability check failed for user %s, failing open: %v", userID, err)
		verdict = services.Verdict{Available: true}
	}

	return c.JSON(http.StatusOK, verdict)
}
