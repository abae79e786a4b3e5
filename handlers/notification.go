package handlers

import (
	"net/http"

	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler lists the current user's unread notifications
func GetNotificationsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	notifier := services.NewNotificationService(db.DB)
	notifications, err := notifier.GetUnreadNotifications(company.ID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetNotificationCountHandler returns the unread badge count
func GetNotificationCountHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	notifier := services.NewNotificationService(db.DB)
	count, err := notifier.GetNotificationCount(company.ID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

// MarkNotificationReadHandler marks one notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	notifier := services.NewNotificationService(db.DB)
	if err := notifier.MarkAsRead(c.Param("id"), user.ID, company.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler clears the user's unread list
func MarkAllNotificationsReadHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	notifier := services.NewNotificationService(db.DB)
	if err := notifier.MarkAllAsRead(company.ID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications read")
	}
	return c.NoContent(http.StatusNoContent)
}
