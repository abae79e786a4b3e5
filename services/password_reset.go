package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"crew_shift_app_go/models"

	"gorm.io/gorm"
)

const (
	// ResetTokenLength is the length of the reset token in bytes
	ResetTokenLength = 32
	// ResetTokenExpiration is how long a reset token is valid
	ResetTokenExpiration = 24 * time.Hour
)

// GenerateResetToken creates a password reset token for a user.
// Returns (nil, nil) for unknown or inactive accounts so that the caller
// cannot be used for email enumeration.
func GenerateResetToken(db *gorm.DB, userEmail string) (*models.PasswordResetToken, error) {
	var user models.User
	if err := db.Where("email = ?", userEmail).First(&user).Error; err != nil {
		log.Printf("Password reset requested for non-existent email: %s", userEmail)
		return nil, nil
	}

	if !user.IsActive {
		log.Printf("Password reset requested for inactive user: %s", userEmail)
		return nil, nil
	}

	// Delete any existing tokens for this user
	db.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{})

	tokenBytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %v", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	resetToken := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenExpiration),
	}

	if err := db.Create(resetToken).Error; err != nil {
		return nil, fmt.Errorf("failed to create reset token: %v", err)
	}

	return resetToken, nil
}

// ValidateResetToken validates a password reset token and returns the associated user
func ValidateResetToken(db *gorm.DB, token string) (*models.User, error) {
	var resetToken models.PasswordResetToken

	if err := db.Preload("User").Where("token = ?", token).First(&resetToken).Error; err != nil {
		return nil, fmt.Errorf("invalid or expired token")
	}

	if resetToken.IsExpired() {
		// Delete expired token
		db.Delete(&resetToken)
		return nil, fmt.Errorf("token has expired")
	}

	if resetToken.User == nil || !resetToken.User.IsActive {
		return nil, fmt.Errorf("user account is not active")
	}

	return resetToken.User, nil
}

// ResetPassword resets a user's password using a valid token
func ResetPassword(db *gorm.DB, token string, newPassword string) error {
	user, err := ValidateResetToken(db, token)
	if err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Token is single-use
	db.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{})

	// Invalidate existing sessions after a password change
	db.Where("user_id = ?", user.ID).Delete(&models.Session{})

	return nil
}

// CleanupExpiredTokens removes all expired reset tokens from the database
func CleanupExpiredTokens(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", result.Error)
	}
	return nil
}
