package services

import (
	"testing"
	"time"

	"crew_shift_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupResetTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Company{}, &models.User{},
		&models.Session{}, &models.PasswordResetToken{})
	return db
}

func TestGenerateResetTokenUnknownEmail(t *testing.T) {
	db := setupResetTestDB()

	// Unknown email yields neither token nor error (no enumeration)
	token, err := GenerateResetToken(db, "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, token)
}

func TestGenerateResetTokenReplacesExisting(t *testing.T) {
	db := setupResetTestDB()
	user := seedAuthUser(db, "elena@example.com", "old-password")

	first, err := GenerateResetToken(db, "elena@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, first)

	second, err := GenerateResetToken(db, "elena@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Only the latest token survives
	var count int64
	db.Model(&models.PasswordResetToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResetPasswordFlow(t *testing.T) {
	db := setupResetTestDB()
	user := seedAuthUser(db, "elena@example.com", "old-password")

	// A live session that must die with the old password
	session, err := CreateSession(db, user.ID, *user.CompanyID, "", "")
	assert.NoError(t, err)

	token, err := GenerateResetToken(db, "elena@example.com")
	assert.NoError(t, err)

	assert.NoError(t, ResetPassword(db, token.Token, "new-password"))

	// 1. New password works, old one is gone
	_, err = Authenticate(db, "elena@example.com", "new-password")
	assert.NoError(t, err)
	_, err = Authenticate(db, "elena@example.com", "old-password")
	assert.Error(t, err)

	// 2. Token is single-use
	assert.Error(t, ResetPassword(db, token.Token, "another-password"))

	// 3. Sessions were invalidated
	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := setupResetTestDB()
	seedAuthUser(db, "elena@example.com", "old-password")

	token, err := GenerateResetToken(db, "elena@example.com")
	assert.NoError(t, err)

	db.Model(&models.PasswordResetToken{}).Where("token = ?", token.Token).
		Update("expires_at", time.Now().Add(-time.Minute))

	assert.Error(t, ResetPassword(db, token.Token, "new-password"))
}
