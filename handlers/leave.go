package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// --- Full-day leaves (dedicated table) ---

type leaveRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// GetLeavesHandler lists the company's full-day leaves
func GetLeavesHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	leaves, err := services.GetCompanyLeaves(db.DB, company.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch leaves")
	}
	return c.JSON(http.StatusOK, leaves)
}

// CreateLeaveHandler records a full-day leave period
func CreateLeaveHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req leaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	if err := requireCompanyMember(company.ID, req.UserID); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.LeaveStatusApproved
	}

	leave := &models.ApprovedLeave{
		CompanyID: company.ID,
		UserID:    req.UserID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		Reason:    req.Reason,
	}
	if err := services.CreateLeave(db.DB, leave); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "ApprovedLeave", leave.ID, "",
		"Created full-day leave")

	return c.JSON(http.StatusCreated, leave)
}

// --- Single-day permissions (dedicated table) ---

type permissionRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// GetPermissionsHandler lists the company's single-day permissions
func GetPermissionsHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	perms, err := services.GetCompanyPermissions(db.DB, company.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch permissions")
	}
	return c.JSON(http.StatusOK, perms)
}

// CreatePermissionHandler records a single-day permission window
func CreatePermissionHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
	}
	if !timeOfDayRe.MatchString(req.StartTime) || !timeOfDayRe.MatchString(req.EndTime) {
		return echo.NewHTTPError(http.StatusBadRequest, "Times must be in HH:MM format")
	}
	if err := requireCompanyMember(company.ID, req.UserID); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.LeaveStatusApproved
	}

	perm := &models.ApprovedPermission{
		CompanyID: company.ID,
		UserID:    req.UserID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
		Reason:    req.Reason,
	}
	if err := services.CreatePermission(db.DB, perm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "ApprovedPermission", perm.ID, "",
		"Created single-day permission")

	return c.JSON(http.StatusCreated, perm)
}

// --- Combined leave requests (polymorphic table) ---

// GetLeaveRequestsHandler lists combined requests. Employees see only
// their own; planners and admins see the whole company.
func GetLeaveRequestsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	reqs, err := services.GetCompanyLeaveRequests(db.DB, company.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch leave requests")
	}

	if !user.CanManageSchedule() {
		own := make([]models.LeaveRequest, 0, len(reqs))
		for _, r := range reqs {
			if r.UserID == user.ID {
				own = append(own, r)
			}
		}
		reqs = own
	}
	return c.JSON(http.StatusOK, reqs)
}

// CreateLeaveRequestHandler files a combined leave request, optionally
// with a supporting document. Accepts multipart or plain JSON.
func CreateLeaveRequestHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	kind := c.FormValue("kind")
	switch kind {
	case models.LeaveKindVacation, models.LeaveKindPermission, models.LeaveKindSickness, models.LeaveKindInjury:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown leave kind")
	}

	start, end, err := parseDateRange(c.FormValue("start_date"), c.FormValue("end_date"))
	if err != nil {
		return err
	}

	// Employees file for themselves; planners can file on behalf of anyone
	userID := user.ID
	if requested := c.FormValue("user_id"); requested != "" && user.CanManageSchedule() {
		if err := requireCompanyMember(company.ID, requested); err != nil {
			return err
		}
		userID = requested
	}

	req := &models.LeaveRequest{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		UserID:    userID,
		Kind:      kind,
		StartDate: start,
		EndDate:   end,
		Status:    models.LeaveStatusPending,
		Reason:    c.FormValue("reason"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil {
		if err := services.ValidateLeaveAttachment(fileHeader); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if services.Storage == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "File storage not available")
		}
		key := services.GenerateLeaveAttachmentKey(company.ID, req.ID, fileHeader.Filename)
		if _, err := services.Storage.Upload(c.Request().Context(), fileHeader, key); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store attachment")
		}
		req.AttachmentKey = &key
		req.AttachmentName = &fileHeader.Filename
	}

	if err := services.CreateLeaveRequest(db.DB, req); err != nil {
		// The row never landed, so the cleanup job will never see this
		// key. Remove the blob now instead of orphaning it.
		if req.AttachmentKey != nil {
			if delErr := services.Storage.Delete(c.Request().Context(), *req.AttachmentKey); delErr != nil {
				log.Printf("[WARNING] Failed to remove attachment %s after rejected leave request: %v",
					*req.AttachmentKey, delErr)
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "LeaveRequest", req.ID, req.Kind,
		"Filed leave request")

	return c.JSON(http.StatusCreated, req)
}

type leaveDecisionRequest struct {
	Status string `json:"status"` // APPROVED or REJECTED
}

// DecideLeaveRequestHandler approves or rejects a combined request and
// notifies the requester
func DecideLeaveRequestHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var body leaveDecisionRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req, err := services.DecideLeaveRequest(db.DB, company.ID, c.Param("id"), body.Status, user.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Leave request not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notifier := services.NewNotificationService(db.DB)
	notification := &models.Notification{
		CompanyID: company.ID,
		UserID:    &req.UserID,
		Type:      models.NotificationTypeLeaveDecision,
		Title:     fmt.Sprintf("Leave request %s", req.Status),
		Message: fmt.Sprintf("Your %s request for %s to %s was %s.",
			req.Kind,
			req.StartDate.Format("Jan 2"), req.EndDate.Format("Jan 2, 2006"),
			req.Status),
		LinkURL: "/leave",
	}
	if err := notifier.CreateNotification(notification); err != nil {
		c.Logger().Warnf("failed to create leave decision notification: %v", err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "LeaveRequest", req.ID, req.Kind,
		fmt.Sprintf("Leave request %s", req.Status))

	return c.JSON(http.StatusOK, req)
}

// GetLeaveAttachmentHandler streams a request's supporting document
func GetLeaveAttachmentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	req, err := services.GetLeaveRequestByID(db.DB, company.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Leave request not found")
	}
	// Employees may only open their own documents
	if !user.CanManageSchedule() && req.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	if !req.HasAttachment() || services.Storage == nil {
		return echo.NewHTTPError(http.StatusNotFound, "No attachment on this request")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), *req.AttachmentKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch attachment")
	}
	defer reader.Close()

	if req.AttachmentName != nil {
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("inline; filename=%q", *req.AttachmentName))
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response().Writer, reader)
	return err
}

// DeleteLeaveRequestHandler removes a request together with its blob
func DeleteLeaveRequestHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	id := c.Param("id")
	if err := services.DeleteLeaveRequest(c.Request().Context(), db.DB, company.ID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Leave request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete leave request")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionDelete, "LeaveRequest", id, "",
		"Deleted leave request")

	return c.NoContent(http.StatusNoContent)
}

// --- shared helpers ---

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid start date format")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid end date format")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "End date precedes start date")
	}
	return start, end, nil
}

func requireCompanyMember(companyID, userID string) error {
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	var u models.User
	if err := db.DB.Where("company_id = ?", companyID).First(&u, "id = ?", userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown employee")
	}
	return nil
}
