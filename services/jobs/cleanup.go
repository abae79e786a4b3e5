package jobs

import (
	"context"
	"log"
	"time"

	"crew_shift_app_go/config"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler wires the nightly background jobs: the expired
// leave-request sweep at 03:00 and the shift reminders at 18:00.
func StartScheduler(database *gorm.DB, cfg *config.Config) {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("[CRON] Running expired leave-request cleanup...")
		CleanupExpiredLeaveRequests(context.Background(), database, cfg)
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule cleanup job: %v", err)
	}

	_, err = c.AddFunc("0 18 * * *", func() {
		log.Println("[CRON] Running shift reminders...")
		SendShiftReminders(database, cfg)
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule reminder job: %v", err)
	}

	c.Start()
	log.Println("[CRON] Background scheduler started")
}

// CleanupExpiredLeaveRequests sweeps leave-request rows whose expiry has
// passed: first the referenced attachment blob, then the row itself. A
// blob delete failure skips the row so the reference is never orphaned;
// the next run retries it.
func CleanupExpiredLeaveRequests(ctx context.Context, database *gorm.DB, cfg *config.Config) {
	cutoff := time.Now().UTC()

	// Rows with no explicit expiry fall back to the retention window
	retentionCutoff := cutoff.AddDate(0, 0, -cfg.LeaveRetentionDays)

	var expired []models.LeaveRequest
	err := database.
		Where("(expires_at IS NOT NULL AND expires_at < ?) OR (expires_at IS NULL AND end_date < ?)",
			cutoff, retentionCutoff).
		Find(&expired).Error
	if err != nil {
		log.Printf("[JOB] Error listing expired leave requests: %v", err)
		return
	}

	log.Printf("[JOB] Found %d expired leave requests", len(expired))

	deleted := 0
	for _, req := range expired {
		if req.HasAttachment() && services.Storage != nil {
			if err := services.Storage.Delete(ctx, *req.AttachmentKey); err != nil {
				log.Printf("[JOB] Failed to delete attachment %s for request %s, skipping row: %v",
					*req.AttachmentKey, req.ID, err)
				continue
			}
		}

		if err := database.Unscoped().Delete(&models.LeaveRequest{}, "id = ?", req.ID).Error; err != nil {
			log.Printf("[JOB] Failed to delete leave request %s: %v", req.ID, err)
			continue
		}
		deleted++
	}

	log.Printf("[JOB] Leave-request cleanup completed: %d of %d rows removed", deleted, len(expired))
}
