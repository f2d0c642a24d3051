package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"projectms/internal/auth"
	"projectms/internal/authz"
	"projectms/internal/config"
	"projectms/internal/database"
	"projectms/internal/middleware"
	"projectms/internal/models"
	"projectms/internal/repository"
	"projectms/internal/services"
)

type handlerTestEnv struct {
	db  *gorm.DB
	cfg *config.Config

	authService    *services.AuthService
	userService    *services.UserService
	projectService *services.ProjectService
	taskService    *services.TaskService

	router *gin.Engine
}

// fakeMailer keeps handler tests off the network.
type fakeMailer struct{}

func (fakeMailer) SendPasswordResetEmail(toEmail, toName, resetToken, resetURL string) bool {
	return true
}

func (fakeMailer) SendTaskAssignmentEmail(toEmail, toName, taskTitle, taskDescription, projectName, priority, status string) bool {
	return true
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		&models.SmtpSettings{},
	)
	require.NoError(t, err)
	require.NoError(t, database.SeedRoles(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		BaseURL:        "http://localhost:5173",
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	policy := authz.NewPolicy()
	mailer := fakeMailer{}

	env := &handlerTestEnv{
		db:             db,
		cfg:            cfg,
		authService:    services.NewAuthService(userRepo, mailer, cfg),
		userService:    services.NewUserService(userRepo),
		projectService: services.NewProjectService(projectRepo, policy),
		taskService:    services.NewTaskService(taskRepo, projectRepo, mailer, policy),
	}

	authHandler := NewAuthHandler(env.authService)
	userHandler := NewUserHandler(env.userService)
	projectHandler := NewProjectHandler(env.projectService)
	taskHandler := NewTaskHandler(env.taskService)

	r := gin.New()
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)

	users := api.Group("/users")
	users.Use(middleware.RequireAuth(cfg.JWTSecret))
	users.POST("/change-password", userHandler.ChangePassword)
	admin := users.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("", userHandler.ListUsers)
	admin.POST("", userHandler.CreateUser)
	admin.GET("/:id", userHandler.GetUser)
	admin.PUT("/:id", userHandler.UpdateUser)
	admin.DELETE("/:id", userHandler.DeleteUser)

	projects := api.Group("/projects")
	projects.Use(middleware.RequireAuth(cfg.JWTSecret))
	projects.GET("", projectHandler.ListProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
	projects.PUT("/:id", middleware.RequireAdmin(), projectHandler.UpdateProject)
	projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(cfg.JWTSecret))
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	env.router = r
	return env
}

// registerUser creates an account through the service layer and returns
// the stored user together with a bearer token.
func (env *handlerTestEnv) registerUser(t *testing.T, username, email, roleName string) (*models.User, string) {
	t.Helper()

	var role models.Role
	require.NoError(t, env.db.Where("name = ?", roleName).First(&role).Error)

	result, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "supersecret",
		RoleID:   &role.ID,
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, env.db.Preload("Role").First(&user, result.UserID).Error)

	token, err := auth.GenerateToken(env.cfg.JWTSecret, &user, role.Name, env.cfg.AccessTokenTTL)
	require.NoError(t, err)

	return &user, token
}

func (env *handlerTestEnv) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
