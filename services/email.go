package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"crew_shift_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// ShiftAssignedEmailData feeds the shift-assigned template
type ShiftAssignedEmailData struct {
	EmployeeName string
	CompanyName  string
	Date         string
	StartTime    string
	EndTime      string
	Location     string
	ScheduleLink string
}

// ShiftReminderEmailData feeds the evening-before reminder template
type ShiftReminderEmailData struct {
	EmployeeName string
	CompanyName  string
	Date         string
	StartTime    string
	EndTime      string
	Location     string
}

// PasswordResetEmailData feeds the password reset template
type PasswordResetEmailData struct {
	Name      string
	ResetLink string
}

var shiftAssignedHTML = template.Must(template.New("shift_assigned").Parse(`
<h2>New shift assigned</h2>
<p>Hi {{.EmployeeName}},</p>
<p>{{.CompanyName}} scheduled you for a shift:</p>
<ul>
  <li><strong>Date:</strong> {{.Date}}</li>
  <li><strong>Time:</strong> {{.StartTime}} &ndash; {{.EndTime}}</li>
  {{if .Location}}<li><strong>Location:</strong> {{.Location}}</li>{{end}}
</ul>
<p><a href="{{.ScheduleLink}}">View your schedule</a></p>
`))

var shiftReminderHTML = template.Must(template.New("shift_reminder").Parse(`
<h2>Shift reminder</h2>
<p>Hi {{.EmployeeName}},</p>
<p>Reminder from {{.CompanyName}}: you work tomorrow, {{.Date}},
from {{.StartTime}} to {{.EndTime}}{{if .Location}} at {{.Location}}{{end}}.</p>
`))

var passwordResetHTML = template.Must(template.New("password_reset").Parse(`
<h2>Reset your password</h2>
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password.
<a href="{{.ResetLink}}">Choose a new password</a>.
The link is valid for 24 hours. If you did not request this, ignore this email.</p>
`))

// BuildShiftAssignedEmail builds the notification sent when a shift is created
func BuildShiftAssignedEmail(toEmail string, data ShiftAssignedEmailData) *Email {
	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("New shift on %s", data.Date),
		HTMLBody: renderTemplate(shiftAssignedHTML, data),
		TextBody: fmt.Sprintf("Hi %s, %s scheduled you on %s from %s to %s at %s. %s",
			data.EmployeeName, data.CompanyName, data.Date, data.StartTime, data.EndTime, data.Location, data.ScheduleLink),
	}
}

// BuildShiftReminderEmail builds the evening-before reminder
func BuildShiftReminderEmail(toEmail string, data ShiftReminderEmailData) *Email {
	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Reminder: shift tomorrow %s-%s", data.StartTime, data.EndTime),
		HTMLBody: renderTemplate(shiftReminderHTML, data),
		TextBody: fmt.Sprintf("Hi %s, reminder: you work tomorrow %s from %s to %s at %s.",
			data.EmployeeName, data.Date, data.StartTime, data.EndTime, data.Location),
	}
}

// BuildPasswordResetEmail builds the password reset email
func BuildPasswordResetEmail(toEmail string, data PasswordResetEmailData) *Email {
	return &Email{
		To:       []string{toEmail},
		Subject:  "Reset your CrewShift password",
		HTMLBody: renderTemplate(passwordResetHTML, data),
		TextBody: fmt.Sprintf("Hi %s, reset your password here: %s (valid 24 hours)", data.Name, data.ResetLink),
	}
}

func renderTemplate(tmpl *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("Error rendering email template %s: %v", tmpl.Name(), err)
		return ""
	}
	return buf.String()
}

// SendEmail sends an email through Resend, or logs it in test mode
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Prefer HTML if available
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in the background, logging failures
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid races with the caller mutating the struct
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
