package handlers

import (
	"net/http"
	"regexp"

	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type shiftTemplateRequest struct {
	Name            string `json:"name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	LocationName    string `json:"location_name"`
	LocationAddress string `json:"location_address"`
}

func (r shiftTemplateRequest) validate() error {
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Template name is required")
	}
	if !timeOfDayRe.MatchString(r.StartTime) || !timeOfDayRe.MatchString(r.EndTime) {
		return echo.NewHTTPError(http.StatusBadRequest, "Times must be in HH:MM format")
	}
	return nil
}

// GetShiftTemplatesHandler lists the company's active templates
func GetShiftTemplatesHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	templates, err := services.GetShiftTemplates(db.DB, company.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch templates")
	}
	return c.JSON(http.StatusOK, templates)
}

// CreateShiftTemplateHandler adds a new reusable shift pattern
func CreateShiftTemplateHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req shiftTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	template := &models.ShiftTemplate{
		CompanyID:       company.ID,
		Name:            req.Name,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		LocationName:    req.LocationName,
		LocationAddress: req.LocationAddress,
		IsActive:        true,
	}
	if err := services.CreateShiftTemplate(db.DB, template); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create template")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "ShiftTemplate", template.ID, template.Name,
		"Created shift template")

	return c.JSON(http.StatusCreated, template)
}

// UpdateShiftTemplateHandler edits a template. Assignments already
// stamped from it are untouched.
func UpdateShiftTemplateHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	template, err := services.GetShiftTemplateByID(db.DB, company.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Shift template not found")
	}

	var req shiftTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	template.Name = req.Name
	template.StartTime = req.StartTime
	template.EndTime = req.EndTime
	template.LocationName = req.LocationName
	template.LocationAddress = req.LocationAddress

	if err := services.UpdateShiftTemplate(db.DB, template); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update template")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "ShiftTemplate", template.ID, template.Name,
		"Updated shift template")

	return c.JSON(http.StatusOK, template)
}

// DeleteShiftTemplateHandler soft-deletes a template
func DeleteShiftTemplateHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	id := c.Param("id")
	if _, err := services.GetShiftTemplateByID(db.DB, company.ID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Shift template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch template")
	}
	if err := services.DeleteShiftTemplate(db.DB, company.ID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete template")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionDelete, "ShiftTemplate", id, "",
		"Deleted shift template")

	return c.NoContent(http.StatusNoContent)
}
