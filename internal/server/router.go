package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dodotask/dodotask-backend/internal/handlers"
	"github.com/dodotask/dodotask-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	TaskHandler      *handlers.TaskHandler
	WellbeingHandler *handlers.WellbeingHandler
	PetHandler       *handlers.PetHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/me", cfg.AuthHandler.GetMe)

		// Tasks
		protected.POST("/tasks", cfg.TaskHandler.Create)
		protected.GET("/tasks", cfg.TaskHandler.List)
		protected.GET("/tasks/:id", cfg.TaskHandler.Get)
		protected.POST("/tasks/:id/start", cfg.TaskHandler.Start)
		protected.PATCH("/tasks/:id/complete", cfg.TaskHandler.Complete)
		protected.GET("/tasks/:id/recommend-due", cfg.TaskHandler.RecommendDue)

		// Wellbeing
		protected.POST("/wellbeing/events", cfg.WellbeingHandler.IngestEvent)
		protected.POST("/wellbeing/mood", cfg.WellbeingHandler.LogMood)
		protected.POST("/wellbeing/mood/infer", cfg.WellbeingHandler.InferMood)
		protected.POST("/wellbeing/focus/start", cfg.WellbeingHandler.StartFocus)
		protected.POST("/wellbeing/focus/:id/end", cfg.WellbeingHandler.EndFocus)
		protected.POST("/wellbeing/rollup", cfg.WellbeingHandler.Rollup)
		protected.GET("/wellbeing/risk", cfg.WellbeingHandler.Risk)

		// Pet
		protected.GET("/pet", cfg.PetHandler.GetState)
		protected.POST("/pet/chat", cfg.PetHandler.Chat)
		protected.POST("/pet/rename", cfg.PetHandler.Rename)
	}

	return router
}
