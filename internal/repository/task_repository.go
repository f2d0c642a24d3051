package repository

import (
	"gorm.io/gorm"

	"projectms/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and attaches the valid subset of assignees
// within a single transaction
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return insertTaskAssignees(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task with the project (including its membership)
// and assignees preloaded, so policy checks need no further queries
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Preload("Project").
		Preload("Project.ProjectUsers").
		Preload("TaskUsers").
		Preload("TaskUsers.User").
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks narrowed by the given scopes
func (r *GormTaskRepository) List(scopes ...Scope) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	for _, scope := range scopes {
		query = query.Scopes(scope)
	}

	if err := query.
		Preload("Project").
		Preload("TaskUsers").
		Preload("TaskUsers.User").
		Order("tasks.id").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists changes to task fields
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// ReplaceAssignees swaps the assignment set: delete-all then re-insert
// the valid subset, atomically.
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskUser{}).Error; err != nil {
			return err
		}

		return insertTaskAssignees(tx, taskID, userIDs)
	})
}

// Delete removes a task and its assignment rows atomically
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

func insertTaskAssignees(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	validIDs, err := filterExistingUserIDs(tx, userIDs)
	if err != nil {
		return err
	}
	if len(validIDs) == 0 {
		return nil
	}

	assignees := make([]models.TaskUser, len(validIDs))
	for i, userID := range validIDs {
		assignees[i] = models.TaskUser{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.Create(&assignees).Error
}
