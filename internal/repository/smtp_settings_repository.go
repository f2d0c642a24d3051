package repository

import (
	"gorm.io/gorm"

	"projectms/internal/models"
)

// GormSmtpSettingsRepository is a GORM implementation of SmtpSettingsRepository
type GormSmtpSettingsRepository struct {
	db *gorm.DB
}

// NewSmtpSettingsRepository creates a new SmtpSettingsRepository
func NewSmtpSettingsRepository(db *gorm.DB) SmtpSettingsRepository {
	return &GormSmtpSettingsRepository{db: db}
}

// FindActive returns the active settings row, if any
func (r *GormSmtpSettingsRepository) FindActive() (*models.SmtpSettings, error) {
	var settings models.SmtpSettings
	if err := r.db.Where("is_active = ?", true).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindLatest returns the most recently created settings row
func (r *GormSmtpSettingsRepository) FindLatest() (*models.SmtpSettings, error) {
	var settings models.SmtpSettings
	if err := r.db.Order("created_at DESC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindByID finds a settings row by ID
func (r *GormSmtpSettingsRepository) FindByID(id uint64) (*models.SmtpSettings, error) {
	var settings models.SmtpSettings
	if err := r.db.First(&settings, id).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update persists changes to a settings row
func (r *GormSmtpSettingsRepository) Update(settings *models.SmtpSettings) error {
	return r.db.Save(settings).Error
}

// CreateDeactivatingOthers inserts new settings after deactivating
// every currently active row, in one transaction
func (r *GormSmtpSettingsRepository) CreateDeactivatingOthers(settings *models.SmtpSettings) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SmtpSettings{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Create(settings).Error
	})
}
