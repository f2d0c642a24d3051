package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"projectms/internal/models"
	"projectms/internal/repository"
)

var ErrSmtpSettingsNotFound = errors.New("SMTP settings not found")

// SmtpSettingsService manages the stored outbound mail configuration.
type SmtpSettingsService struct {
	settingsRepo repository.SmtpSettingsRepository
}

// NewSmtpSettingsService creates a new SmtpSettingsService.
func NewSmtpSettingsService(settingsRepo repository.SmtpSettingsRepository) *SmtpSettingsService {
	return &SmtpSettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings returns the most recent settings row.
func (s *SmtpSettingsService) GetSettings() (*models.SmtpSettings, error) {
	settings, err := s.settingsRepo.FindLatest()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSmtpSettingsNotFound
		}
		return nil, fmt.Errorf("failed to load SMTP settings: %w", err)
	}
	return settings, nil
}

// SaveSettingsInput represents input for creating or updating settings.
type SaveSettingsInput struct {
	ID        *uint64
	Host      string
	Port      int
	Username  string
	Password  string
	EnableSsl bool
	FromEmail string
	FromName  string
	IsActive  bool
}

// SaveSettings updates the addressed row, or inserts a new one while
// deactivating every previously active row.
func (s *SmtpSettingsService) SaveSettings(input SaveSettingsInput) (*models.SmtpSettings, error) {
	if input.ID != nil {
		settings, err := s.settingsRepo.FindByID(*input.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSmtpSettingsNotFound
			}
			return nil, fmt.Errorf("failed to find SMTP settings: %w", err)
		}

		settings.Host = input.Host
		settings.Port = input.Port
		settings.Username = input.Username
		settings.Password = input.Password
		settings.EnableSsl = input.EnableSsl
		settings.FromEmail = input.FromEmail
		settings.FromName = input.FromName
		settings.IsActive = input.IsActive

		if err := s.settingsRepo.Update(settings); err != nil {
			return nil, fmt.Errorf("failed to update SMTP settings: %w", err)
		}
		return settings, nil
	}

	settings := &models.SmtpSettings{
		Host:      input.Host,
		Port:      input.Port,
		Username:  input.Username,
		Password:  input.Password,
		EnableSsl: input.EnableSsl,
		FromEmail: input.FromEmail,
		FromName:  input.FromName,
		IsActive:  input.IsActive,
	}

	if err := s.settingsRepo.CreateDeactivatingOthers(settings); err != nil {
		return nil, fmt.Errorf("failed to create SMTP settings: %w", err)
	}

	return settings, nil
}
