package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"projectms/internal/authz"
	"projectms/internal/logger"
	"projectms/internal/models"
	"projectms/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("not allowed to modify this task")
	ErrTitleRequired = errors.New("title is required")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	mailer      Mailer
	policy      authz.Policy
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, mailer Mailer, policy authz.Policy) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		mailer:      mailer,
		policy:      policy,
	}
}

// ListTasks returns tasks visible to the actor, optionally narrowed to
// one project. Non-admins see tasks they are assigned to plus tasks in
// projects they belong to.
func (s *TaskService) ListTasks(actor authz.Actor, projectID *uint64) ([]models.Task, error) {
	scopes := []repository.Scope{s.policy.VisibleTasks(actor)}
	if projectID != nil {
		id := *projectID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("tasks.project_id = ?", id)
		})
	}

	tasks, err := s.taskRepo.List(scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task the actor may view; invisible tasks are
// reported as not found.
func (s *TaskService) GetTask(actor authz.Actor, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !s.policy.CanViewTask(actor, task) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title           string
	Description     string
	Status          models.TaskStatus
	Priority        models.TaskPriority
	ProjectID       uint64
	AssignedUserIDs []uint64
}

// CreateTask creates a task in a project the actor may add to, attaches
// the valid subset of assignees, and notifies them by email
// (best-effort: a mail failure never fails the creation).
func (s *TaskService) CreateTask(actor authz.Actor, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	// The actor named the project, so its existence is already implied:
	// a membership failure is Forbidden, not NotFound.
	if !s.policy.CanCreateTaskInProject(actor, project) {
		return nil, ErrTaskForbidden
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		CreatedDate: time.Now().UTC(),
	}

	if err := s.taskRepo.Create(task, input.AssignedUserIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.notifyAssignees(created, nil)

	return created, nil
}

// UpdateTaskInput represents input for updating a task. A nil
// AssignedUserIDs leaves the assignment set untouched; an empty slice
// clears it.
type UpdateTaskInput struct {
	Title           string
	Description     string
	Status          models.TaskStatus
	Priority        models.TaskPriority
	ProjectID       uint64
	AssignedUserIDs *[]uint64
}

// UpdateTask replaces the task fields and, when an assignee list is
// supplied, the assignment set. Newly assigned users are notified.
func (s *TaskService) UpdateTask(actor authz.Actor, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !s.policy.CanMutateTask(actor, task) {
		return nil, ErrTaskNotFound
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	previousAssignees := make(map[uint64]struct{}, len(task.TaskUsers))
	for _, tu := range task.TaskUsers {
		previousAssignees[tu.UserID] = struct{}{}
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.ProjectID = input.ProjectID
	task.TaskUsers = nil
	task.Project = models.Project{}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.AssignedUserIDs != nil {
		if err := s.taskRepo.ReplaceAssignees(task.ID, *input.AssignedUserIDs); err != nil {
			return nil, fmt.Errorf("failed to replace task assignees: %w", err)
		}
	}

	updated, err := s.taskRepo.FindByID(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	if input.AssignedUserIDs != nil {
		s.notifyAssignees(updated, previousAssignees)
	}

	return updated, nil
}

// DeleteTask removes a task the actor may mutate.
func (s *TaskService) DeleteTask(actor authz.Actor, id uint64) error {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !s.policy.CanMutateTask(actor, task) {
		return ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// notifyAssignees emails users that were not assigned before. Dispatch
// failures are logged and swallowed: notification availability must
// not gate the mutation.
func (s *TaskService) notifyAssignees(task *models.Task, previous map[uint64]struct{}) {
	for _, tu := range task.TaskUsers {
		if _, existed := previous[tu.UserID]; existed {
			continue
		}
		if tu.User.Email == "" {
			continue
		}

		sent := s.mailer.SendTaskAssignmentEmail(
			tu.User.Email,
			tu.User.Username,
			task.Title,
			task.Description,
			task.Project.Name,
			string(task.Priority),
			string(task.Status),
		)
		if !sent {
			logger.Log.Warn("task assignment notification not delivered",
				zap.Uint64("task_id", task.ID),
				zap.Uint64("user_id", tu.UserID))
		}
	}
}
