package jobs

import (
	"log"
	"time"

	"crew_shift_app_go/config"
	"crew_shift_app_go/models"
	"crew_shift_app_go/services"

	"gorm.io/gorm"
)

// SendShiftReminders emails every employee who works tomorrow and has
// not been reminded yet.
func SendShiftReminders(database *gorm.DB, cfg *config.Config) {
	log.Println("Starting shift reminder job...")

	tomorrow := services.NormalizeDate(time.Now().UTC().AddDate(0, 0, 1))

	var assignments []models.ShiftAssignment
	err := database.Preload("User").Preload("Company").
		Where("date = ?", tomorrow).
		Where("reminder_sent_at IS NULL").
		Find(&assignments).Error
	if err != nil {
		log.Printf("Error fetching assignments for reminders: %v", err)
		return
	}

	log.Printf("Found %d assignments to remind", len(assignments))

	for _, a := range assignments {
		if a.User.Email == "" {
			continue
		}

		email := services.BuildShiftReminderEmail(a.User.Email, services.ShiftReminderEmailData{
			EmployeeName: a.UserName,
			CompanyName:  a.Company.Name,
			Date:         a.Date.Format("Monday, January 2, 2006"),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			Location:     a.LocationName,
		})

		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("Failed to send reminder for assignment %s: %v", a.ID, err)
			continue
		}

		now := time.Now().UTC()
		database.Model(&a).Update("reminder_sent_at", now)
		log.Printf("Sent reminder for assignment %s", a.ID)
	}

	log.Println("Shift reminder job completed")
}
