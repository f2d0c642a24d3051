package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projectms/internal/config"
	"projectms/internal/database"
	"projectms/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.ProjectUser{},
		&models.Task{},
		&models.TaskUser{},
		&models.SmtpSettings{},
	)
	require.NoError(t, err)

	require.NoError(t, database.SeedRoles(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		BaseURL:        "http://localhost:5173",
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username, email, roleName string) *models.User {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Preload("Role").First(user, user.ID).Error)

	return user
}

// fakeMailer records outgoing mail instead of dialing SMTP.
type fakeMailer struct {
	failReset      bool
	failAssignment bool

	resetRecipients      []string
	lastResetToken       string
	lastResetURL         string
	assignmentRecipients []string
}

func (m *fakeMailer) SendPasswordResetEmail(toEmail, toName, resetToken, resetURL string) bool {
	if m.failReset {
		return false
	}
	m.resetRecipients = append(m.resetRecipients, toEmail)
	m.lastResetToken = resetToken
	m.lastResetURL = resetURL
	return true
}

func (m *fakeMailer) SendTaskAssignmentEmail(toEmail, toName, taskTitle, taskDescription, projectName, priority, status string) bool {
	if m.failAssignment {
		return false
	}
	m.assignmentRecipients = append(m.assignmentRecipients, toEmail)
	return true
}
