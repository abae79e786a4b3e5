package handlers

import (
	"net/http"
	"time"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type batchAssignmentRequest struct {
	TemplateID string               `json:"template_id"`
	Date       string               `json:"date"` // YYYY-MM-DD
	Selections []services.Selection `json:"selections"`
}

// CreateAssignmentsHandler builds and persists one batch of shift
// assignments: one per selected employee, template defaults unless the
// selection carries an override. The insert is all-or-nothing.
func CreateAssignmentsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req batchAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	// Client-side style validation: reject before touching the store
	if req.TemplateID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, services.ErrNoTemplate.Error())
	}
	if len(req.Selections) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, services.ErrNoSelections.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
	}

	template, err := services.GetShiftTemplateByID(db.DB, company.ID, req.TemplateID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Shift template not found")
	}

	// Resolve display names for selections that omit them
	for i := range req.Selections {
		if req.Selections[i].UserName == "" {
			var u models.User
			if err := db.DB.Where("company_id = ?", company.ID).
				First(&u, "id = ?", req.Selections[i].UserID).Error; err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Unknown employee in selection")
			}
			req.Selections[i].UserName = u.Name
		}
	}

	if err := services.ValidateBatchInput(template, req.Selections); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignments := services.BuildAssignments(company.ID, template, date, req.Selections, user.ID)

	if err := services.CreateAssignments(db.DB, assignments); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save shift assignments")
	}

	// Notify affected employees (in-app rows plus async emails)
	notifier := services.NewNotificationService(db.DB)
	if err := notifier.NotifyAssignments(assignments); err != nil {
		c.Logger().Warnf("failed to create assignment notifications: %v", err)
	}
	if cfg, ok := c.Get("config").(*config.Config); ok {
		sendAssignmentEmails(cfg, company, assignments)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "ShiftAssignment", template.ID, template.Name,
		"Created shift assignment batch")

	return c.JSON(http.StatusCreated, assignments)
}

func sendAssignmentEmails(cfg *config.Config, company *models.Company, assignments []models.ShiftAssignment) {
	for _, a := range assignments {
		var u models.User
		if err := db.DB.First(&u, "id = ?", a.UserID).Error; err != nil || u.Email == "" {
			continue
		}
		email := services.BuildShiftAssignedEmail(u.Email, services.ShiftAssignedEmailData{
			EmployeeName: a.UserName,
			CompanyName:  company.Name,
			Date:         a.Date.Format("Monday, January 2, 2006"),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			Location:     a.LocationName,
			ScheduleLink: cfg.AppURL + "/schedule?start=" + a.Date.Format("2006-01-02"),
		})
		services.SendEmailAsync(cfg, email)
	}
}

// GetScheduleHandler returns assignments for a date window (defaults to
// the current week). Employees only see their own shifts.
func GetScheduleHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	start, end, err := parseScheduleWindow(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var assignments []models.ShiftAssignment
	if user.CanManageSchedule() {
		assignments, err = services.GetScheduleRange(db.DB, company.ID, start, end)
	} else {
		assignments, err = services.GetUserScheduleRange(db.DB, company.ID, user.ID, start, end)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch schedule")
	}

	return c.JSON(http.StatusOK, assignments)
}

type updateAssignmentRequest struct {
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	LocationName    *string `json:"location_name"`
	LocationAddress *string `json:"location_address"`
	Date            *string `json:"date"`
}

// UpdateAssignmentHandler edits one assignment (one update per action)
func UpdateAssignmentHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	assignment, err := services.GetAssignmentByID(db.DB, company.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
	}

	var req updateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.StartTime != nil {
		assignment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		assignment.EndTime = *req.EndTime
	}
	if req.LocationName != nil {
		assignment.LocationName = *req.LocationName
	}
	if req.LocationAddress != nil {
		assignment.LocationAddress = *req.LocationAddress
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
		}
		assignment.Date = services.NormalizeDate(date)
	}

	if err := services.UpdateAssignment(db.DB, assignment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update assignment")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "ShiftAssignment", assignment.ID, assignment.UserName,
		"Updated shift assignment")

	return c.JSON(http.StatusOK, assignment)
}

// DeleteAssignmentHandler removes one assignment (one delete per action)
func DeleteAssignmentHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	id := c.Param("id")
	if err := services.DeleteAssignment(db.DB, company.ID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete assignment")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionDelete, "ShiftAssignment", id, "",
		"Deleted shift assignment")

	return c.NoContent(http.StatusNoContent)
}

// parseScheduleWindow reads start/end query params, defaulting to the
// week beginning today
func parseScheduleWindow(c echo.Context) (time.Time, time.Time, error) {
	now := services.NormalizeDate(time.Now().UTC())
	start, end := now, now.AddDate(0, 0, 6)

	if s := c.QueryParam("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, echo.NewHTTPError(http.StatusBadRequest, "Invalid start date format")
		}
		start = services.NormalizeDate(parsed)
		end = start.AddDate(0, 0, 6)
	}
	if s := c.QueryParam("end"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, echo.NewHTTPError(http.StatusBadRequest, "Invalid end date format")
		}
		end = services.NormalizeDate(parsed)
	}
	return start, end, nil
}
