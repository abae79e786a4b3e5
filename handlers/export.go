package handlers

import (
	"fmt"
	"net/http"
	"time"

	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

// ExportScheduleExcelHandler downloads one week of the schedule as xlsx
func ExportScheduleExcelHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	weekStart, err := parseWeekStart(c)
	if err != nil {
		return err
	}

	buf, err := services.ExportScheduleExcel(db.DB, company.ID, company.Name, weekStart)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate Excel export")
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", weekStart.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportSchedulePDFHandler downloads one week of the schedule as PDF
func ExportSchedulePDFHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	weekStart, err := parseWeekStart(c)
	if err != nil {
		return err
	}

	pdf, err := services.ExportSchedulePDF(db.DB, company.ID, company.Name, weekStart)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF export")
	}

	filename := fmt.Sprintf("schedule_%s.pdf", weekStart.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func parseWeekStart(c echo.Context) (time.Time, error) {
	s := c.QueryParam("start")
	if s == "" {
		return services.NormalizeDate(time.Now().UTC()), nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid start date format")
	}
	return services.NormalizeDate(parsed), nil
}
