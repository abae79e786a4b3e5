package main

import (
	"log"
	"time"

	"crew_shift_app_go/config"
	"crew_shift_app_go/db"
	"crew_shift_app_go/handlers"
	"crew_shift_app_go/middleware"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"
	"crew_shift_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.MigrateAll(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())
	e.POST("/api/forgot-password", handlers.ForgotPasswordHandler, middleware.PasswordResetRateLimiter.Middleware())
	e.POST("/api/reset-password", handlers.ResetPasswordHandler, middleware.PasswordResetRateLimiter.Middleware())

	// Company setup (authenticated but no company required yet)
	setup := e.Group("/api")
	setup.Use(middleware.RequireAuth())
	{
		setup.POST("/company", handlers.CreateCompanyHandler)
		setup.GET("/me", handlers.GetCurrentUserHandler)
		setup.POST("/logout", handlers.LogoutHandler)
	}

	// Protected routes (authentication + company required)
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.RequireCompany())
	protected.Use(middleware.AuditContext())
	protected.Use(middleware.APIRateLimiter.Middleware())
	{
		// All company members
		protected.GET("/company", handlers.GetCompanyHandler)
		protected.GET("/schedule", handlers.GetScheduleHandler)
		protected.GET("/notifications", handlers.GetNotificationsHandler)
		protected.GET("/notifications/count", handlers.GetNotificationCountHandler)
		protected.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler)
		protected.PUT("/notifications/read-all", handlers.MarkAllNotificationsReadHandler)
		protected.GET("/leave-requests", handlers.GetLeaveRequestsHandler)
		protected.POST("/leave-requests", handlers.CreateLeaveRequestHandler)
		protected.GET("/leave-requests/:id/attachment", handlers.GetLeaveAttachmentHandler)

		// Planner and admin routes
		planning := protected.Group("")
		planning.Use(middleware.RequireRole(models.RoleAdmin, models.RolePlanner))
		{
			planning.GET("/availability", handlers.GetRosterAvailabilityHandler)
			planning.GET("/availability/:id", handlers.GetUserAvailabilityHandler)

			planning.POST("/assignments", handlers.CreateAssignmentsHandler)
			planning.PUT("/assignments/:id", handlers.UpdateAssignmentHandler)
			planning.DELETE("/assignments/:id", handlers.DeleteAssignmentHandler)

			planning.GET("/shift-templates", handlers.GetShiftTemplatesHandler)
			planning.POST("/shift-templates", handlers.CreateShiftTemplateHandler)
			planning.PUT("/shift-templates/:id", handlers.UpdateShiftTemplateHandler)
			planning.DELETE("/shift-templates/:id", handlers.DeleteShiftTemplateHandler)

			planning.GET("/leaves", handlers.GetLeavesHandler)
			planning.POST("/leaves", handlers.CreateLeaveHandler)
			planning.GET("/permissions", handlers.GetPermissionsHandler)
			planning.POST("/permissions", handlers.CreatePermissionHandler)
			planning.PUT("/leave-requests/:id/decision", handlers.DecideLeaveRequestHandler)
			planning.DELETE("/leave-requests/:id", handlers.DeleteLeaveRequestHandler)

			planning.GET("/exports/schedule.xlsx", handlers.ExportScheduleExcelHandler)
			planning.GET("/exports/schedule.pdf", handlers.ExportSchedulePDFHandler)

			planning.GET("/users", handlers.GetCompanyUsersHandler)
		}

		// Admin-only routes
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.PUT("/company", handlers.UpdateCompanyHandler)
			admin.POST("/users", handlers.CreateUserHandler)
			admin.PUT("/users/:id", handlers.UpdateUserHandler)
			admin.DELETE("/users/:id", handlers.DeactivateUserHandler)
		}
	}

	// Scheduled jobs (nightly cleanup, evening shift reminders)
	jobs.StartScheduler(db.DB, cfg)

	// Hourly housekeeping for sessions and reset tokens
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
			if err := services.CleanupExpiredTokens(db.DB); err != nil {
				log.Printf("Error cleaning up expired tokens: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
