package handlers

import (
	"net/http"
	"strings"

	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetCompanyUsersHandler lists the company's active roster
func GetCompanyUsersHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var users []models.User
	if err := middleware.GetCompanyScopedQuery(c, db.DB).Where("is_active = ?", true).
		Order("name").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}
	return c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUserHandler adds an employee to the company
func CreateUserHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}
	switch req.Role {
	case "":
		req.Role = models.RoleEmployee
	case models.RoleAdmin, models.RolePlanner, models.RoleEmployee:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown role")
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		CompanyID: &company.ID,
		Role:      req.Role,
		IsActive:  true,
	}
	if err := db.DB.Create(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "A user with this email already exists")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "User", user.ID, user.Name,
		"Created user")

	return c.JSON(http.StatusCreated, user)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UpdateUserHandler edits an employee's profile, role or active flag
func UpdateUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if current == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var user models.User
	if err := middleware.GetCompanyScopedQuery(c, db.DB).
		First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RolePlanner, models.RoleEmployee:
			user.Role = *req.Role
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown role")
		}
	}
	if req.IsActive != nil {
		// Admins cannot lock themselves out
		if user.ID == current.ID && !*req.IsActive {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "User", user.ID, user.Name,
		"Updated user")

	return c.JSON(http.StatusOK, user)
}

// DeactivateUserHandler disables an account without deleting its history
func DeactivateUserHandler(c echo.Context) error {
	current := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if current == nil || company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	id := c.Param("id")
	if id == current.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot deactivate your own account")
	}

	result := middleware.GetCompanyScopedQuery(c, db.DB.Model(&models.User{})).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate user")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	// Revoke any live sessions
	if err := db.DB.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.Logger().Warnf("failed to revoke sessions for deactivated user %s: %v", id, err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "User", id, "",
		"Deactivated user")

	return c.NoContent(http.StatusNoContent)
}
