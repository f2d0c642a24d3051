package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"projectms/internal/authz"
	"projectms/internal/dto"
	"projectms/internal/models"
	"projectms/internal/services"
)

func TestTaskHandler_CreateTask(t *testing.T) {
	env := setupHandlerTestEnv(t)
	member, memberToken := env.registerUser(t, "member", "member@example.com", models.RoleUser)

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Alpha",
		UserIDs: []uint64{member.ID},
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/tasks", memberToken, map[string]any{
		"title":             "Write docs",
		"project_id":        project.ID,
		"assigned_user_ids": []uint64{member.ID, 9999},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Write docs", created.Title)
	require.Equal(t, models.TaskStatusTodo, created.Status)
	require.Equal(t, models.TaskPriorityMedium, created.Priority)
	require.Equal(t, "Alpha", created.ProjectName)
	// The unknown assignee was dropped.
	require.Equal(t, []uint64{member.ID}, created.AssignedUserIDs)
}

func TestTaskHandler_CreateTask_OutsideMembershipIs403(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, outsiderToken := env.registerUser(t, "outsider", "outsider@example.com", models.RoleUser)

	project, err := env.projectService.CreateProject(services.CreateProjectInput{Name: "Alpha"})
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/tasks", outsiderToken, map[string]any{
		"title":      "Not allowed",
		"project_id": project.ID,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_CreateTask_UnknownProjectIs404(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "admin@example.com", models.RoleAdmin)

	w := env.request(t, http.MethodPost, "/api/tasks", adminToken, map[string]any{
		"title":      "Orphan",
		"project_id": 424242,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ListTasks_ProjectFilter(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, adminToken := env.registerUser(t, "admin", "admin@example.com", models.RoleAdmin)

	alpha, err := env.projectService.CreateProject(services.CreateProjectInput{Name: "Alpha"})
	require.NoError(t, err)
	beta, err := env.projectService.CreateProject(services.CreateProjectInput{Name: "Beta"})
	require.NoError(t, err)

	admin := authActor(t, env, "admin@example.com")
	_, err = env.taskService.CreateTask(admin, services.CreateTaskInput{Title: "In alpha", ProjectID: alpha.ID})
	require.NoError(t, err)
	_, err = env.taskService.CreateTask(admin, services.CreateTaskInput{Title: "In beta", ProjectID: beta.ID})
	require.NoError(t, err)

	w := env.request(t, http.MethodGet, "/api/tasks", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 2)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks?project_id=%d", beta.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var filtered []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	require.Equal(t, "In beta", filtered[0].Title)

	w = env.request(t, http.MethodGet, "/api/tasks?project_id=abc", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_GetTask_HiddenIs404(t *testing.T) {
	env := setupHandlerTestEnv(t)
	_, outsiderToken := env.registerUser(t, "outsider", "outsider@example.com", models.RoleUser)
	_, adminToken := env.registerUser(t, "admin", "admin@example.com", models.RoleAdmin)

	project, err := env.projectService.CreateProject(services.CreateProjectInput{Name: "Alpha"})
	require.NoError(t, err)
	task, err := env.taskService.CreateTask(authActor(t, env, "admin@example.com"), services.CreateTaskInput{
		Title:     "Hidden",
		ProjectID: project.ID,
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskHandler_UpdateAndDelete(t *testing.T) {
	env := setupHandlerTestEnv(t)
	member, memberToken := env.registerUser(t, "member", "member@example.com", models.RoleUser)

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Alpha",
		UserIDs: []uint64{member.ID},
	})
	require.NoError(t, err)

	task, err := env.taskService.CreateTask(authActor(t, env, "member@example.com"), services.CreateTaskInput{
		Title:     "Iterate",
		ProjectID: project.ID,
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), memberToken, map[string]any{
		"title":             "Iterate faster",
		"status":            models.TaskStatusInProgress,
		"priority":          models.TaskPriorityHigh,
		"project_id":        project.ID,
		"assigned_user_ids": []uint64{member.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "Iterate faster", updated.Title)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.Equal(t, []uint64{member.ID}, updated.AssignedUserIDs)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), memberToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), memberToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// authActor resolves the stored user into the policy identity the
// service layer expects.
func authActor(t *testing.T, env *handlerTestEnv, email string) authz.Actor {
	t.Helper()

	var user models.User
	require.NoError(t, env.db.Preload("Role").Where("email = ?", email).First(&user).Error)

	return authz.Actor{
		UserID:  user.ID,
		IsAdmin: user.Role.Name == models.RoleAdmin,
	}
}
