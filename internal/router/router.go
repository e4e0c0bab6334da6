package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/middleware"
	"go.uber.org/zap"
)

func NewRouter(allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", handlers.Signup)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", handlers.ListTasks)
			tasks.POST("", handlers.CreateTask)
			tasks.GET("/:id", handlers.GetTask)
			tasks.PUT("/:id", handlers.UpdateTask)
			tasks.PATCH("/:id/assign", handlers.AssignTask)
			tasks.DELETE("/:id", handlers.DeleteTask)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("", handlers.ListProjects)
			projects.POST("", handlers.CreateProject)
			projects.GET("/:id", handlers.GetProject)
			projects.PUT("/:id", handlers.UpdateProject)
			projects.POST("/:id/share", handlers.ShareProject)
			projects.GET("/:id/members", handlers.ListMembers)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("/me", handlers.GetProfile)
			users.PUT("/me", handlers.UpdateProfile)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.GET("/users", handlers.ListUsers)
			admin.PATCH("/users/:id/role", handlers.UpdateUserRole)
			admin.GET("/analytics", handlers.Analytics)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.POST("/test-email", handlers.TestEmail)
			notifications.POST("/test-sms", handlers.TestSMS)
			notifications.POST("/send-now/:taskId", handlers.SendNow)
		}

		templates := api.Group("/templates", middleware.AuthMiddleware())
		{
			templates.GET("", handlers.ListTemplates)
			templates.POST("", handlers.CreateTemplate)
			templates.PUT("/:id", handlers.UpdateTemplate)
			templates.DELETE("/:id", handlers.DeleteTemplate)
		}
	}

	return r
}
