package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "projectms/internal/errors"
	"projectms/internal/services"
)

// SmtpSettingsHandler manages the stored outbound mail configuration.
type SmtpSettingsHandler struct {
	settingsService *services.SmtpSettingsService
	emailService    *services.EmailService
}

// NewSmtpSettingsHandler creates a new SmtpSettingsHandler.
func NewSmtpSettingsHandler(settingsService *services.SmtpSettingsService, emailService *services.EmailService) *SmtpSettingsHandler {
	return &SmtpSettingsHandler{
		settingsService: settingsService,
		emailService:    emailService,
	}
}

// GetSettings returns the most recent SMTP settings. The password is
// never serialized.
func (h *SmtpSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		if errors.Is(err, services.ErrSmtpSettingsNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to load SMTP settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SaveSettings creates new settings or updates an addressed row.
func (h *SmtpSettingsHandler) SaveSettings(c *gin.Context) {
	type SaveSettingsRequest struct {
		ID        *uint64 `json:"id"`
		Host      string  `json:"host" binding:"required"`
		Port      int     `json:"port" binding:"required"`
		Username  string  `json:"username"`
		Password  string  `json:"password"`
		EnableSsl bool    `json:"enable_ssl"`
		FromEmail string  `json:"from_email" binding:"required,email"`
		FromName  string  `json:"from_name"`
		IsActive  bool    `json:"is_active"`
	}

	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.SaveSettings(services.SaveSettingsInput{
		ID:        req.ID,
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		EnableSsl: req.EnableSsl,
		FromEmail: req.FromEmail,
		FromName:  req.FromName,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrSmtpSettingsNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to save SMTP settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// TestConnection verifies the configured SMTP server is reachable.
func (h *SmtpSettingsHandler) TestConnection(c *gin.Context) {
	if err := h.emailService.TestConnection(); err != nil {
		apierrors.ServiceUnavailable(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "SMTP connection successful"})
}
