package repository

import (
	"gorm.io/gorm"

	"projectms/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and attaches the valid subset of members
// within a single transaction
func (r *GormProjectRepository) Create(project *models.Project, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		return insertProjectMembers(tx, project.ID, memberIDs)
	})
}

// FindByID finds a project with members and their users preloaded
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("ProjectUsers").
		Preload("ProjectUsers.User").
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns projects narrowed by the given scopes
func (r *GormProjectRepository) List(scopes ...Scope) ([]models.Project, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	for _, scope := range scopes {
		query = query.Scopes(scope)
	}

	if err := query.
		Preload("ProjectUsers").
		Preload("ProjectUsers.User").
		Order("projects.id").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// Update persists changes to project fields
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// ReplaceMembers swaps the membership set: delete-all then re-insert
// the valid subset, atomically. A failure mid-way rolls back both.
func (r *GormProjectRepository) ReplaceMembers(projectID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectUser{}).Error; err != nil {
			return err
		}

		return insertProjectMembers(tx, projectID, userIDs)
	})
}

// Delete removes a project, its tasks, and all join rows atomically
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskUser{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

func insertProjectMembers(tx *gorm.DB, projectID uint64, userIDs []uint64) error {
	validIDs, err := filterExistingUserIDs(tx, userIDs)
	if err != nil {
		return err
	}
	if len(validIDs) == 0 {
		return nil
	}

	members := make([]models.ProjectUser, len(validIDs))
	for i, userID := range validIDs {
		members[i] = models.ProjectUser{
			ProjectID: projectID,
			UserID:    userID,
		}
	}

	return tx.Create(&members).Error
}
