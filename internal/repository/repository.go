package repository

import (
	"gorm.io/gorm"

	"projectms/internal/models"
)

// Scope narrows a list query (visibility filters, pagination).
type Scope func(db *gorm.DB) *gorm.DB

// UserRepository defines the interface for user and role data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with the role preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email with the role preloaded
	FindByEmail(email string) (*models.User, error)

	// FindByEmailAndResetToken finds the user matching both the email
	// and the stored reset token exactly
	FindByEmailAndResetToken(email, token string) (*models.User, error)

	// List returns a page of users with roles preloaded, plus the
	// total count
	List(offset, limit int) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user and their membership rows atomically
	Delete(id uint64) error

	// FindRoleByID finds a role by ID
	FindRoleByID(id uint64) (*models.Role, error)

	// FindRoleByName finds a role by name
	FindRoleByName(name string) (*models.Role, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and attaches the subset of member IDs
	// that reference existing users, in one transaction
	Create(project *models.Project, memberIDs []uint64) error

	// FindByID finds a project with members and their users preloaded
	FindByID(id uint64) (*models.Project, error)

	// List returns projects (members preloaded) narrowed by scopes
	List(scopes ...Scope) ([]models.Project, error)

	// Update persists changes to project fields
	Update(project *models.Project) error

	// ReplaceMembers atomically swaps the membership set: all existing
	// rows are deleted and the valid subset of userIDs is inserted
	ReplaceMembers(projectID uint64, userIDs []uint64) error

	// Delete removes a project, its tasks, and all join rows atomically
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and attaches the subset of assignee IDs
	// that reference existing users, in one transaction
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task with project membership and assignees preloaded
	FindByID(id uint64) (*models.Task, error)

	// List returns tasks (relations preloaded) narrowed by scopes
	List(scopes ...Scope) ([]models.Task, error)

	// Update persists changes to task fields
	Update(task *models.Task) error

	// ReplaceAssignees atomically swaps the assignment set
	ReplaceAssignees(taskID uint64, userIDs []uint64) error

	// Delete removes a task and its assignment rows atomically
	Delete(id uint64) error
}

// SmtpSettingsRepository defines the interface for SMTP settings access
type SmtpSettingsRepository interface {
	// FindActive returns the active settings row, if any
	FindActive() (*models.SmtpSettings, error)

	// FindLatest returns the most recently created settings row
	FindLatest() (*models.SmtpSettings, error)

	// FindByID finds a settings row by ID
	FindByID(id uint64) (*models.SmtpSettings, error)

	// Update persists changes to a settings row
	Update(settings *models.SmtpSettings) error

	// CreateDeactivatingOthers inserts new settings after flipping
	// every currently active row to inactive, in one transaction
	CreateDeactivatingOthers(settings *models.SmtpSettings) error
}
