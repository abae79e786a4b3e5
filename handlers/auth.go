package handlers

import (
	"net/http"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates credentials and opens a session
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := services.Authenticate(db.DB, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	session, err := services.CreateSession(db.DB, user.ID, companyID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session.Token, int(services.DefaultSessionDuration.Seconds()))

	services.LogAuditEvent(db.DB, services.AuditContext{
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}, models.AuditActionLogin, "User", user.ID, user.Email, "User logged in")

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler closes the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		_ = services.DeleteSession(db.DB, cookie.Value)
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// GetCurrentUserHandler returns the authenticated user
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordHandler issues a reset token and emails the reset link.
// Always responds 204 so the endpoint cannot confirm whether an email
// is registered.
func ForgotPasswordHandler(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	token, err := services.GenerateResetToken(db.DB, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process request")
	}

	if token != nil {
		cfg, _ := c.Get("config").(*config.Config)
		if cfg != nil {
			var user models.User
			if err := db.DB.First(&user, "id = ?", token.UserID).Error; err == nil {
				email := services.BuildPasswordResetEmail(user.Email, services.PasswordResetEmailData{
					Name:      user.Name,
					ResetLink: cfg.AppURL + "/reset-password?token=" + token.Token,
				})
				services.SendEmailAsync(cfg, email)
			}
		}
	}

	return c.NoContent(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPasswordHandler sets a new password from a valid reset token
func ResetPasswordHandler(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Token == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token and password are required")
	}

	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	if err := services.ResetPassword(db.DB, req.Token, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token")
	}

	return c.NoContent(http.StatusNoContent)
}
