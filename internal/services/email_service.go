package services

import (
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"projectms/internal/config"
	"projectms/internal/logger"
	"projectms/internal/models"
	"projectms/internal/repository"
)

// Mailer delivers notification emails. Both sends are best-effort:
// callers treat a false return as a logged, non-fatal condition.
type Mailer interface {
	SendTaskAssignmentEmail(toEmail, toName, taskTitle, taskDescription, projectName, priority, status string) bool
	SendPasswordResetEmail(toEmail, toName, resetToken, resetURL string) bool
}

// EmailService sends mail over SMTP. Settings come from the active
// database row when one exists, otherwise from the injected config.
type EmailService struct {
	settingsRepo repository.SmtpSettingsRepository
	cfg          *config.Config
}

// NewEmailService creates a new EmailService
func NewEmailService(settingsRepo repository.SmtpSettingsRepository, cfg *config.Config) *EmailService {
	return &EmailService{
		settingsRepo: settingsRepo,
		cfg:          cfg,
	}
}

// SendTaskAssignmentEmail notifies a user that a task was assigned to them.
func (s *EmailService) SendTaskAssignmentEmail(toEmail, toName, taskTitle, taskDescription, projectName, priority, status string) bool {
	if taskDescription == "" {
		taskDescription = "No description"
	}

	subject := fmt.Sprintf("New Task Assigned: %s", taskTitle)
	body := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2>New Task Assigned</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>A new task has been assigned to you:</p>
  <div style="border-left: 4px solid #007bff; padding: 10px 15px;">
    <p><strong>Task:</strong> %s</p>
    <p><strong>Project:</strong> %s</p>
    <p><strong>Status:</strong> %s</p>
    <p><strong>Priority:</strong> %s</p>
    <p><strong>Description:</strong> %s</p>
  </div>
  <p>Sign in to view the task details.</p>
  <p style="color: #6c757d; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
</body>
</html>`, toName, taskTitle, projectName, status, priority, taskDescription)

	if err := s.send(toEmail, subject, body); err != nil {
		logger.Log.Error("failed to send task assignment email",
			zap.String("to", toEmail),
			zap.String("task", taskTitle),
			zap.Error(err))
		return false
	}

	logger.Log.Info("task assignment email sent", zap.String("to", toEmail))
	return true
}

// SendPasswordResetEmail sends the reset link for a pending reset token.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, resetToken, resetURL string) bool {
	subject := "Password Reset Request"
	body := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Password Reset Request</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>A password reset was requested for your account. Click the link below to choose a new password:</p>
  <p><a href="%s">Reset my password</a></p>
  <p><strong>Important:</strong> this link is valid for 24 hours. If you did not request a reset, you can ignore this email.</p>
  <p>If the button does not work, copy this address into your browser:</p>
  <p style="word-break: break-all; color: #007bff;">%s</p>
  <p style="color: #6c757d; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
</body>
</html>`, toName, resetURL, resetURL)

	if err := s.send(toEmail, subject, body); err != nil {
		logger.Log.Error("failed to send password reset email",
			zap.String("to", toEmail),
			zap.Error(err))
		return false
	}

	logger.Log.Info("password reset email sent", zap.String("to", toEmail))
	return true
}

// TestConnection dials the configured SMTP host to verify reachability.
func (s *EmailService) TestConnection() error {
	settings, err := s.resolveSettings()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to reach SMTP server at %s: %w", addr, err)
	}
	return conn.Close()
}

var errSMTPNotConfigured = errors.New("SMTP is not configured")

func (s *EmailService) send(toEmail, subject, body string) error {
	settings, err := s.resolveSettings()
	if err != nil {
		return err
	}

	from := settings.FromEmail
	fromHeader := from
	if settings.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", settings.FromName, from)
	}

	msg := []byte("From: " + fromHeader + "\r\n" +
		"To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		body)

	var auth smtp.Auth
	if settings.Username != "" {
		auth = smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
	}

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	return smtp.SendMail(addr, auth, from, []string{toEmail}, msg)
}

// resolveSettings prefers the active database row over the env config.
func (s *EmailService) resolveSettings() (*models.SmtpSettings, error) {
	if s.settingsRepo != nil {
		settings, err := s.settingsRepo.FindActive()
		if err == nil {
			return settings, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load SMTP settings: %w", err)
		}
	}

	if s.cfg == nil || s.cfg.SMTPHost == "" || s.cfg.SMTPFrom == "" {
		return nil, errSMTPNotConfigured
	}

	port, err := strconv.Atoi(s.cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	return &models.SmtpSettings{
		Host:      s.cfg.SMTPHost,
		Port:      port,
		Username:  s.cfg.SMTPUser,
		Password:  s.cfg.SMTPPassword,
		FromEmail: s.cfg.SMTPFrom,
		FromName:  s.cfg.SMTPFromName,
	}, nil
}
