package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"projectms/internal/authz"
	"projectms/internal/config"
	"projectms/internal/database"
	"projectms/internal/handlers"
	"projectms/internal/logger"
	"projectms/internal/middleware"
	"projectms/internal/repository"
	"projectms/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg)
	defer logger.Log.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	settingsRepo := repository.NewSmtpSettingsRepository(db)

	// Services
	policy := authz.NewPolicy()
	emailService := services.NewEmailService(settingsRepo, cfg)
	authService := services.NewAuthService(userRepo, emailService, cfg)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, policy)
	taskService := services.NewTaskService(taskRepo, projectRepo, emailService, policy)
	dashboardService := services.NewDashboardService(db, policy)
	settingsService := services.NewSmtpSettingsService(settingsRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	settingsHandler := handlers.NewSmtpSettingsHandler(settingsService, emailService)

	// Initialize Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// User routes (admin only, except password change)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			users.POST("/change-password", userHandler.ChangePassword)

			admin := users.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("", userHandler.ListUsers)
				admin.POST("", userHandler.CreateUser)
				admin.GET("/:id", userHandler.GetUser)
				admin.PUT("/:id", userHandler.UpdateUser)
				admin.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Project routes (reads for members, writes admin only)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
			projects.PUT("/:id", middleware.RequireAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)
		}

		// Task routes (visibility enforced in the service layer)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Dashboard
		api.GET("/dashboard", middleware.RequireAuth(cfg.JWTSecret), dashboardHandler.GetStats)

		// SMTP settings (admin only)
		settings := api.Group("/settings/smtp")
		settings.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.POST("", settingsHandler.SaveSettings)
			settings.POST("/test", settingsHandler.TestConnection)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
