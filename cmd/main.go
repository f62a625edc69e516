package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dodotask/dodotask-backend/internal/clients/hf"
	"github.com/dodotask/dodotask-backend/internal/clients/redisc"
	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/handlers"
	"github.com/dodotask/dodotask-backend/internal/jobs"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/middleware"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/server"
	"github.com/dodotask/dodotask-backend/internal/services"
	"github.com/dodotask/dodotask-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "change-me", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)

	// Mongo
	mongoService, err := db.NewMongoService(log)
	if err != nil {
		log.Error("Mongo init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoService.Close(ctx)
	}()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := mongoService.EnsureIndexes(ctx); err != nil {
			log.Warn("Index creation failed", "error", err)
		}
		cancel()
	}

	// Redis (optional): cache of the latest risk score per user.
	var riskCache redisc.RiskCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cacheTTL := utils.GetEnvAsInt("RISK_CACHE_TTL_SECONDS", 900, log)
		riskCache, err = redisc.NewRiskCache(log, addr, time.Duration(cacheTTL)*time.Second)
		if err != nil {
			log.Warn("Redis init failed, running without risk cache", "error", err)
			riskCache = nil
		} else {
			defer riskCache.Close()
		}
	}

	// Hugging Face (optional): mood inference and pet chat.
	var hfClient hf.Client
	if apiKey := os.Getenv("HF_API_KEY"); apiKey != "" {
		hfClient = hf.NewClient(log, os.Getenv("HF_BASE_URL"), apiKey)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(mongoService, log)
	taskRepo := repos.NewTaskRepo(mongoService, log)
	eventRepo := repos.NewEventRepo(mongoService, log)
	moodRepo := repos.NewMoodLogRepo(mongoService, log)
	focusRepo := repos.NewFocusSessionRepo(mongoService, log)
	rollupRepo := repos.NewRollupRepo(mongoService, log)
	riskRepo := repos.NewRiskScoreRepo(mongoService, log)
	petRepo := repos.NewPetRepo(mongoService, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(log, userRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	taskService := services.NewTaskService(log, taskRepo, eventRepo)
	wellbeingService := services.NewWellbeingService(log, eventRepo, moodRepo, focusRepo, hfClient)
	rollupService := services.NewRollupService(log, taskRepo, eventRepo, moodRepo, focusRepo, rollupRepo)
	riskService := services.NewRiskService(log, rollupService, rollupRepo, riskRepo, petRepo, riskCache)
	recommendService := services.NewRecommendService(log, taskRepo)
	petService := services.NewPetService(log, petRepo, riskRepo, riskCache, hfClient)

	// Nightly rollup job
	rollupJob := jobs.NewRollupJob(log, rollupService, eventRepo)
	if err := rollupJob.Start(); err != nil {
		log.Error("Failed to start rollup job", "error", err)
		os.Exit(1)
	}
	defer rollupJob.Stop()

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	taskHandler := handlers.NewTaskHandler(log, taskService, recommendService)
	wellbeingHandler := handlers.NewWellbeingHandler(log, wellbeingService, rollupService, riskService)
	petHandler := handlers.NewPetHandler(log, petService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		TaskHandler:      taskHandler,
		WellbeingHandler: wellbeingHandler,
		PetHandler:       petHandler,
	})

	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
