package dto

import (
	"time"

	"projectms/internal/models"
)

// ProjectDTO represents a project in API responses. Member IDs and
// display names are materialized from the join rows.
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"created_date"`
	UserIDs     []uint64  `json:"user_ids"`
	UserNames   []string  `json:"user_names"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	userIDs := make([]uint64, len(project.ProjectUsers))
	userNames := make([]string, len(project.ProjectUsers))
	for i, pu := range project.ProjectUsers {
		userIDs[i] = pu.UserID
		userNames[i] = pu.User.Username
	}

	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedDate: project.CreatedDate,
		UserIDs:     userIDs,
		UserNames:   userNames,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
