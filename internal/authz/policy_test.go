package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projectms/internal/models"
)

func TestPolicy_CanViewProject(t *testing.T) {
	policy := NewPolicy()

	project := &models.Project{
		ID: 1,
		ProjectUsers: []models.ProjectUser{
			{ProjectID: 1, UserID: 10},
		},
	}

	require.True(t, policy.CanViewProject(Actor{UserID: 99, IsAdmin: true}, project))
	require.True(t, policy.CanViewProject(Actor{UserID: 10}, project))
	require.False(t, policy.CanViewProject(Actor{UserID: 11}, project))
}

func TestPolicy_CanViewTask(t *testing.T) {
	policy := NewPolicy()

	task := &models.Task{
		ID: 1,
		TaskUsers: []models.TaskUser{
			{TaskID: 1, UserID: 20},
		},
		Project: models.Project{
			ID: 1,
			ProjectUsers: []models.ProjectUser{
				{ProjectID: 1, UserID: 10},
			},
		},
	}

	require.True(t, policy.CanViewTask(Actor{IsAdmin: true}, task))
	require.True(t, policy.CanViewTask(Actor{UserID: 20}, task), "assignee may view")
	require.True(t, policy.CanViewTask(Actor{UserID: 10}, task), "project member may view")
	require.False(t, policy.CanViewTask(Actor{UserID: 30}, task))

	// Mutation follows the same rule as reads.
	require.True(t, policy.CanMutateTask(Actor{UserID: 20}, task))
	require.False(t, policy.CanMutateTask(Actor{UserID: 30}, task))
}

func TestPolicy_CanCreateTaskInProject(t *testing.T) {
	policy := NewPolicy()

	project := &models.Project{
		ID: 1,
		ProjectUsers: []models.ProjectUser{
			{ProjectID: 1, UserID: 10},
		},
	}

	require.True(t, policy.CanCreateTaskInProject(Actor{IsAdmin: true}, project))
	require.True(t, policy.CanCreateTaskInProject(Actor{UserID: 10}, project))
	require.False(t, policy.CanCreateTaskInProject(Actor{UserID: 11}, project))
}

func openScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.ProjectUser{},
		&models.Task{},
		&models.TaskUser{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestPolicy_VisibleProjectsScope(t *testing.T) {
	db := openScopeTestDB(t)
	policy := NewPolicy()

	require.NoError(t, db.Create(&models.Role{Name: models.RoleUser}).Error)
	user := models.User{Username: "u", Email: "u@example.com", PasswordHash: "x", RoleID: 1}
	require.NoError(t, db.Create(&user).Error)

	mine := models.Project{Name: "mine"}
	other := models.Project{Name: "other"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.ProjectUser{ProjectID: mine.ID, UserID: user.ID}).Error)

	var visible []models.Project
	err := db.Model(&models.Project{}).
		Scopes(policy.VisibleProjects(Actor{UserID: user.ID})).
		Find(&visible).Error
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, mine.ID, visible[0].ID)

	var all []models.Project
	err = db.Model(&models.Project{}).
		Scopes(policy.VisibleProjects(Actor{IsAdmin: true})).
		Find(&all).Error
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestPolicy_VisibleTasksScope(t *testing.T) {
	db := openScopeTestDB(t)
	policy := NewPolicy()

	require.NoError(t, db.Create(&models.Role{Name: models.RoleUser}).Error)
	user := models.User{Username: "u", Email: "u@example.com", PasswordHash: "x", RoleID: 1}
	require.NoError(t, db.Create(&user).Error)

	mine := models.Project{Name: "mine"}
	other := models.Project{Name: "other"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.ProjectUser{ProjectID: mine.ID, UserID: user.ID}).Error)

	inMine := models.Task{Title: "in mine", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, ProjectID: mine.ID}
	inOther := models.Task{Title: "in other", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, ProjectID: other.ID}
	assigned := models.Task{Title: "assigned", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, ProjectID: other.ID}
	require.NoError(t, db.Create(&inMine).Error)
	require.NoError(t, db.Create(&inOther).Error)
	require.NoError(t, db.Create(&assigned).Error)
	require.NoError(t, db.Create(&models.TaskUser{TaskID: assigned.ID, UserID: user.ID}).Error)

	var visible []models.Task
	err := db.Model(&models.Task{}).
		Scopes(policy.VisibleTasks(Actor{UserID: user.ID})).
		Order("tasks.id").
		Find(&visible).Error
	require.NoError(t, err)
	require.Len(t, visible, 2)
	require.Equal(t, inMine.ID, visible[0].ID)
	require.Equal(t, assigned.ID, visible[1].ID)

	var all []models.Task
	err = db.Model(&models.Task{}).
		Scopes(policy.VisibleTasks(Actor{IsAdmin: true})).
		Find(&all).Error
	require.NoError(t, err)
	require.Len(t, all, 3)
}
