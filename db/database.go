package db

import (
	"fmt"
	"log"

	"crew_shift_app_go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the scheduling database. WAL mode plus a busy
// timeout lets the API serve reads while the cron jobs write.
func Initialize(dbPath string, environment string) error {
	var err error

	// Determine log level based on environment
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}

	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Scheduling database ready (WAL mode enabled)")
	return nil
}

// MigrateAll runs migrations for every model the scheduler persists.
// Order matters for the foreign-key references: companies and users
// before everything that points at them.
func MigrateAll() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.ShiftTemplate{},
		&models.ShiftAssignment{},
		&models.ApprovedLeave{},
		&models.ApprovedPermission{},
		&models.LeaveRequest{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
