package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"projectms/internal/authz"
	"projectms/internal/models"
	"projectms/internal/repository"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNameMissing = errors.New("project name is required")
)

// ProjectService handles project business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	policy      authz.Policy
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, policy authz.Policy) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		policy:      policy,
	}
}

// ListProjects returns the projects visible to the actor: all of them
// for admins, membership-only for everyone else.
func (s *ProjectService) ListProjects(actor authz.Actor) ([]models.Project, error) {
	projects, err := s.projectRepo.List(s.policy.VisibleProjects(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the actor may view. An existing project
// the actor cannot view is reported as not found, so existence does
// not leak.
func (s *ProjectService) GetProject(actor authz.Actor, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !s.policy.CanViewProject(actor, project) {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	UserIDs     []uint64
}

// CreateProject creates a project and attaches the supplied members.
// IDs that reference no existing user are dropped silently.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameMissing
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedDate: time.Now().UTC(),
	}

	if err := s.projectRepo.Create(project, input.UserIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID)
}

// UpdateProjectInput represents input for updating a project. A nil
// UserIDs means the membership is left untouched; an empty slice
// clears it.
type UpdateProjectInput struct {
	Name        string
	Description string
	UserIDs     *[]uint64
}

// UpdateProject updates project fields and, when a member list is
// supplied, replaces the membership set wholesale.
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameMissing
	}

	project.Name = input.Name
	project.Description = input.Description
	project.ProjectUsers = nil

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if input.UserIDs != nil {
		if err := s.projectRepo.ReplaceMembers(project.ID, *input.UserIDs); err != nil {
			return nil, fmt.Errorf("failed to replace project members: %w", err)
		}
	}

	return s.projectRepo.FindByID(project.ID)
}

// DeleteProject removes a project with its tasks and memberships.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
