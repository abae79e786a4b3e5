package middleware

import (
	"net/http"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "crew_shift_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyCompany is the context key for the user's company
	ContextKeyCompany = "company"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// RequireAuth is middleware that requires a valid session
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				// Invalid or expired session, clear the cookie
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Session invalid or expired")
			}

			if !session.User.IsActive {
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Account is disabled")
			}

			// Store user, company, and session in context
			c.Set(ContextKeyUser, &session.User)
			c.Set(ContextKeyCompany, session.Company)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			hasRole := false
			for _, role := range roles {
				if user.Role == role {
					hasRole = true
					break
				}
			}

			if !hasRole {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}

// RequireCompany ensures the user has a company assigned
func RequireCompany() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)

			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			if !user.HasCompany() {
				return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
			}

			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentCompany retrieves the current company from context
func GetCurrentCompany(c echo.Context) *models.Company {
	company, ok := c.Get(ContextKeyCompany).(*models.Company)
	if !ok {
		return nil
	}
	return company
}

// GetCompanyScopedQuery returns a GORM query scoped to the current user's company
func GetCompanyScopedQuery(c echo.Context, dbConn *gorm.DB) *gorm.DB {
	currentUser := GetCurrentUser(c)
	if currentUser == nil || currentUser.CompanyID == nil {
		// Return query that matches nothing
		return dbConn.Where("1 = 0")
	}

	return dbConn.Where("company_id = ?", *currentUser.CompanyID)
}

// SetSessionCookie writes the session cookie on login
func SetSessionCookie(c echo.Context, token string, maxAge int) {
	isProduction := false
	if cfg, ok := c.Get("config").(*config.Config); ok {
		isProduction = cfg.Environment == "production"
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context) {
	SetSessionCookie(c, "", -1)
}
