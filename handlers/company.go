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

type companyRequest struct {
	Name         string `json:"name"`
	Timezone     string `json:"timezone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	ContactEmail string `json:"contact_email"`
	NoreplyEmail string `json:"noreply_email"`
}

// CreateCompanyHandler sets up a company for a user who has none yet and
// promotes them to admin
func CreateCompanyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	if user.HasCompany() {
		return echo.NewHTTPError(http.StatusConflict, "User already belongs to a company")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.ContactEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and contact email are required")
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	company := &models.Company{
		Name:         req.Name,
		Timezone:     req.Timezone,
		Address:      req.Address,
		City:         req.City,
		Phone:        req.Phone,
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		NoreplyEmail: req.NoreplyEmail,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{"company_id": company.ID, "role": models.RoleAdmin}).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create company")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionCreate, "Company", company.ID, company.Name,
		"Created company")

	return c.JSON(http.StatusCreated, company)
}

// GetCompanyHandler returns the current company profile
func GetCompanyHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	return c.JSON(http.StatusOK, company)
}

// UpdateCompanyHandler edits the company profile
func UpdateCompanyHandler(c echo.Context) error {
	company := middleware.GetCurrentCompany(c)
	if company == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Timezone != "" {
		company.Timezone = req.Timezone
	}
	if req.ContactEmail != "" {
		company.ContactEmail = strings.ToLower(strings.TrimSpace(req.ContactEmail))
	}
	company.Address = req.Address
	company.City = req.City
	company.Phone = req.Phone
	company.NoreplyEmail = req.NoreplyEmail

	if err := db.DB.Save(company).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update company")
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c),
		models.AuditActionUpdate, "Company", company.ID, company.Name,
		"Updated company profile")

	return c.JSON(http.StatusOK, company)
}
