package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while allowing shared
	// cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Set global DB so handlers and the migration helper see it
	db.DB = testDB

	err = db.MigrateAll()
	assert.NoError(t, err)

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:          "test",
		EmailTestMode:        true,
		AvailabilityFailOpen: true,
		AppURL:               "http://localhost:8080",
	})

	return e, c, rec
}

func seedCompanyAndPlanner(database *gorm.DB) (*models.Company, *models.User) {
	company := &models.Company{ID: "co-test", Name: "Acme Logistics", ContactEmail: "hq@acme.test"}
	database.Create(company)
	planner := &models.User{
		ID: "planner-test", Name: "Paula Planner", Email: "paula@acme.test",
		Password: "x", CompanyID: stringToPtr(company.ID),
		Role: models.RolePlanner, IsActive: true,
	}
	database.Create(planner)
	return company, planner
}

func stringToPtr(s string) *string {
	return &s
}
