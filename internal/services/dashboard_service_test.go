package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"projectms/internal/authz"
	"projectms/internal/models"
	"projectms/internal/repository"
)

func TestDashboardService_GetStats(t *testing.T) {
	db := openTestDB(t)
	policy := authz.NewPolicy()
	dashboardService := NewDashboardService(db, policy)

	admin := createTestUser(t, db, "admin", "admin@example.com", models.RoleAdmin)
	member := createTestUser(t, db, "member", "member@example.com", models.RoleUser)
	outsider := createTestUser(t, db, "outsider", "outsider@example.com", models.RoleUser)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	visible := &models.Project{Name: "Alpha"}
	require.NoError(t, projectRepo.Create(visible, []uint64{member.ID}))
	hidden := &models.Project{Name: "Beta"}
	require.NoError(t, projectRepo.Create(hidden, nil))

	mkTask := func(project *models.Project, status models.TaskStatus) {
		require.NoError(t, taskRepo.Create(&models.Task{
			Title:     "t",
			Status:    status,
			Priority:  models.TaskPriorityMedium,
			ProjectID: project.ID,
		}, nil))
	}

	mkTask(visible, models.TaskStatusTodo)
	mkTask(visible, models.TaskStatusDone)
	mkTask(hidden, models.TaskStatusInProgress)

	adminStats, err := dashboardService.GetStats(actorFor(admin))
	require.NoError(t, err)
	require.EqualValues(t, 2, adminStats.TotalProjects)
	require.EqualValues(t, 3, adminStats.TotalTasks)
	require.EqualValues(t, 1, adminStats.CompletedTasks)
	require.EqualValues(t, 2, adminStats.PendingTasks)
	require.EqualValues(t, 3, adminStats.TotalUsers)

	memberStats, err := dashboardService.GetStats(actorFor(member))
	require.NoError(t, err)
	require.EqualValues(t, 1, memberStats.TotalProjects)
	require.EqualValues(t, 2, memberStats.TotalTasks)
	require.EqualValues(t, 1, memberStats.CompletedTasks)
	require.EqualValues(t, 1, memberStats.PendingTasks)
	require.Zero(t, memberStats.TotalUsers)

	outsiderStats, err := dashboardService.GetStats(actorFor(outsider))
	require.NoError(t, err)
	require.Zero(t, outsiderStats.TotalProjects)
	require.Zero(t, outsiderStats.TotalTasks)
}
