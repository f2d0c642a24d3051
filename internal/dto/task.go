package dto

import (
	"time"

	"projectms/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Status            models.TaskStatus   `json:"status"`
	Priority          models.TaskPriority `json:"priority"`
	ProjectID         uint64              `json:"project_id"`
	ProjectName       string              `json:"project_name"`
	CreatedDate       time.Time           `json:"created_date"`
	AssignedUserIDs   []uint64            `json:"assigned_user_ids"`
	AssignedUserNames []string            `json:"assigned_user_names"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	userIDs := make([]uint64, len(task.TaskUsers))
	userNames := make([]string, len(task.TaskUsers))
	for i, tu := range task.TaskUsers {
		userIDs[i] = tu.UserID
		userNames[i] = tu.User.Username
	}

	return TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		Priority:          task.Priority,
		ProjectID:         task.ProjectID,
		ProjectName:       task.Project.Name,
		CreatedDate:       task.CreatedDate,
		AssignedUserIDs:   userIDs,
		AssignedUserNames: userNames,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
