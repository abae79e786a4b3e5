package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedLoginUser(database *gorm.DB, email, password string) *models.User {
	hash, _ := services.HashPassword(password)
	company := &models.Company{ID: "co-login", Name: "Login Co", ContactEmail: "hq@login.test"}
	database.Create(company)
	user := &models.User{
		Name: "Login User", Email: email, Password: hash,
		CompanyID: stringToPtr(company.ID), Role: models.RoleEmployee, IsActive: true,
	}
	database.Create(user)
	return user
}

func TestLoginHandler(t *testing.T) {
	database := setupTestDB(t)
	seedLoginUser(database, "elena@acme.test", "secret-pass")

	t.Run("Success", func(t *testing.T) {
		body := `{"email": "elena@acme.test", "password": "secret-pass"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/login", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := LoginHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		// Session cookie is set
		cookies := rec.Result().Cookies()
		var found bool
		for _, cookie := range cookies {
			if cookie.Name == "crew_shift_session" && cookie.Value != "" {
				found = true
			}
		}
		assert.True(t, found)

		// Password never leaves the server
		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.NotContains(t, payload, "password")

		var sessions int64
		database.Model(&models.Session{}).Count(&sessions)
		assert.Equal(t, int64(1), sessions)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		body := `{"email": "elena@acme.test", "password": "nope"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/login", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := LoginHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPost, "/api/login", strings.NewReader(`{}`))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := LoginHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestForgotPasswordHandlerNeverConfirms(t *testing.T) {
	database := setupTestDB(t)
	seedLoginUser(database, "elena@acme.test", "secret-pass")

	// Registered and unknown addresses get the same answer
	for _, email := range []string{"elena@acme.test", "ghost@acme.test"} {
		body := `{"email": "` + email + `"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/forgot-password", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := ForgotPasswordHandler(c)
		assert.NoError(t, err, email)
		assert.Equal(t, http.StatusNoContent, rec.Code, email)
	}

	// Only the real account got a token
	var tokens int64
	database.Model(&models.PasswordResetToken{}).Count(&tokens)
	assert.Equal(t, int64(1), tokens)
}

func TestResetPasswordHandler(t *testing.T) {
	database := setupTestDB(t)
	seedLoginUser(database, "elena@acme.test", "old-password")

	token, err := services.GenerateResetToken(database, "elena@acme.test")
	assert.NoError(t, err)

	t.Run("TooShort", func(t *testing.T) {
		body := `{"token": "` + token.Token + `", "password": "short"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/reset-password", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := ResetPasswordHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("Success", func(t *testing.T) {
		body := `{"token": "` + token.Token + `", "password": "brand-new-pass"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/reset-password", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := ResetPasswordHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err = services.Authenticate(database, "elena@acme.test", "brand-new-pass")
		assert.NoError(t, err)
	})

	t.Run("TokenSingleUse", func(t *testing.T) {
		body := `{"token": "` + token.Token + `", "password": "another-new-pass"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/reset-password", strings.NewReader(body))
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		err := ResetPasswordHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetCurrentUserHandler(t *testing.T) {
	database := setupTestDB(t)
	user := seedLoginUser(database, "elena@acme.test", "secret-pass")

	t.Run("Success", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/me", nil)
		c.Set("user", user)

		err := GetCurrentUserHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NotAuthenticated", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/api/me", nil)

		err := GetCurrentUserHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
