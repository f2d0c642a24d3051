package services

import (
	"fmt"

	"gorm.io/gorm"

	"projectms/internal/authz"
	"projectms/internal/models"
)

// DashboardStats summarizes what the actor can see.
type DashboardStats struct {
	TotalProjects  int64 `json:"total_projects"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	TotalUsers     int64 `json:"total_users,omitempty"`
}

// DashboardService computes per-actor counters over the visible sets.
type DashboardService struct {
	db     *gorm.DB
	policy authz.Policy
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *gorm.DB, policy authz.Policy) *DashboardService {
	return &DashboardService{
		db:     db,
		policy: policy,
	}
}

// GetStats returns project/task counters filtered by the actor's
// visibility; the user count is admin-only.
func (s *DashboardService) GetStats(actor authz.Actor) (*DashboardStats, error) {
	stats := &DashboardStats{}

	projects := s.db.Model(&models.Project{}).Scopes(s.policy.VisibleProjects(actor))
	if err := projects.Count(&stats.TotalProjects).Error; err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	tasks := func() *gorm.DB {
		return s.db.Model(&models.Task{}).Scopes(s.policy.VisibleTasks(actor))
	}

	if err := tasks().Count(&stats.TotalTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if err := tasks().Where("tasks.status = ?", models.TaskStatusDone).
		Count(&stats.CompletedTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if err := tasks().Where("tasks.status IN ?", []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress}).
		Count(&stats.PendingTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	if actor.IsAdmin {
		if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
	}

	return stats, nil
}
