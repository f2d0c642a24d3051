package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"projectms/internal/auth"
	"projectms/internal/config"
	"projectms/internal/constants"
	"projectms/internal/logger"
	"projectms/internal/models"
	"projectms/internal/repository"
	"projectms/internal/utils"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrRoleNotFound         = errors.New("role not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrInvalidResetToken    = errors.New("invalid or expired password reset link")
	ErrResetTokenExpired    = errors.New("password reset link has expired, request a new one")
	ErrResetEmailFailed     = errors.New("failed to send the reset email, please try again later")
)

// ResetRequestMessage is returned for every forgot-password request,
// whether or not the email exists, to prevent account enumeration.
const ResetRequestMessage = "If this email address is registered, a password reset link has been sent."

// AuthService handles registration, login, and the password reset flow.
type AuthService struct {
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	RoleID   *uint64
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token    string
	Role     string
	UserID   uint64
	Username string
}

// Register creates a new user and issues an access token. Without an
// explicit role the default "User" role is assigned.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	var role *models.Role
	var err error
	if input.RoleID != nil && *input.RoleID > 0 {
		role, err = s.userRepo.FindRoleByID(*input.RoleID)
	} else {
		role, err = s.userRepo.FindRoleByName(models.RoleUser)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       role.ID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(s.cfg.JWTSecret, user, role.Name, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{
		Token:    token,
		Role:     role.Name,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.cfg.JWTSecret, user, user.Role.Name, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{
		Token:    token,
		Role:     user.Role.Name,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// RequestPasswordReset issues a single-use reset token valid for 24
// hours and emails the reset link. Any prior pending token for the
// user is replaced. An unknown email still yields the generic success
// message and no token.
func (s *AuthService) RequestPasswordReset(email string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("password reset requested for unknown email", zap.String("email", email))
			return ResetRequestMessage, nil
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(constants.ResetTokenTTLHours * time.Hour)
	user.PasswordResetToken = &token
	user.PasswordResetTokenExpiry = &expiry

	if err := s.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := utils.BuildResetURL(s.cfg.BaseURL, token, user.Email)

	// The token stays persisted on dispatch failure so a retry within
	// the validity window does not require re-issuance.
	if !s.mailer.SendPasswordResetEmail(user.Email, user.Username, token, resetURL) {
		return "", ErrResetEmailFailed
	}

	return ResetRequestMessage, nil
}

// ResetPassword consumes a pending reset token. A token that matches
// but has expired is destroyed as a side effect of the failed attempt.
func (s *AuthService) ResetPassword(email, token, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmailAndResetToken(email, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordResetTokenExpiry == nil || user.PasswordResetTokenExpiry.Before(time.Now()) {
		user.PasswordResetToken = nil
		user.PasswordResetTokenExpiry = nil
		if err := s.userRepo.Update(user); err != nil {
			return fmt.Errorf("failed to clear expired reset token: %w", err)
		}
		return ErrResetTokenExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	user.PasswordResetToken = nil
	user.PasswordResetTokenExpiry = nil

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	logger.Log.Info("password reset completed", zap.Uint64("user_id", user.ID))
	return nil
}
