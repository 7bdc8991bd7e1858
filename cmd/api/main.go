package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/placement-nexus/placement-backend/internal/config"
	"github.com/placement-nexus/placement-backend/internal/database"
	"github.com/placement-nexus/placement-backend/internal/documents"
	"github.com/placement-nexus/placement-backend/internal/handlers"
	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/models"
	"github.com/placement-nexus/placement-backend/internal/services"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}
	cfg := config.Load()

	// 2. Database + Cache Connections
	db := database.Connect(cfg.DatabaseDSN)
	rdb := database.ConnectRedis(cfg.RedisAddr)

	// 3. Scoring Oracle (optional: server runs without it)
	var oracle services.ScoreOracle
	if cfg.GeminiAPIKey != "" {
		llm, err := services.NewLLMService(cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("⚠️  Gemini init failed (%v), resume scoring degraded", err)
		} else {
			log.Println("✅ Gemini scoring oracle connected")
			oracle = llm
		}
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, resume scoring degraded")
	}

	// 4. Core Services
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.MasterEmail, cfg.TokenTTL)
	jobService := services.NewJobService(db, cfg.MasterEmail)
	appService := services.NewApplicationService(db, cfg.OpenConfirmCascade)
	scoringService := services.NewScoringService(db, oracle, documents.NewResolver(), rdb)
	analyticsService := services.NewAnalyticsService(db)
	authService.Scores = scoringService // resume updates drop the cached verdict

	// 5. Handlers
	authHandler := handlers.NewAuthHandler(authService)
	jobHandler := handlers.NewJobHandler(jobService)
	appHandler := handlers.NewApplicationHandler(appService)
	adminHandler := handlers.NewAdminHandler(authService, analyticsService)
	scoreHandler := handlers.NewScoreHandler(scoringService)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "x-auth-token"}
	r.Use(cors.New(corsConfig))

	authed := middleware.RequireAuth(authService)

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.PUT("/auth/profile", authed, authHandler.UpdateProfile)
		api.PUT("/auth/resume", authed, middleware.RequireRole(models.RoleStudent), authHandler.SetResume)

		// Job routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.POST("/jobs", authed, middleware.RequireRole(models.RoleRecruiter), jobHandler.CreateJob)
		api.GET("/jobs/mine", authed, middleware.RequireRole(models.RoleRecruiter), jobHandler.MyJobs)
		api.GET("/jobs/pending", authed, jobHandler.PendingJobs)
		api.PUT("/jobs/:id/approve", authed, jobHandler.ApproveJob)
		api.PUT("/jobs/:id/reject", authed, jobHandler.RejectJob)
		api.DELETE("/jobs/:id", authed, jobHandler.DeleteJob)

		// Application lifecycle
		api.POST("/jobs/:id/apply", authed, middleware.RequireRole(models.RoleStudent), appHandler.Apply)
		api.POST("/jobs/:id/withdraw", authed, middleware.RequireRole(models.RoleStudent), appHandler.Withdraw)
		api.POST("/jobs/:id/accept-offer", authed, middleware.RequireRole(models.RoleStudent), appHandler.AcceptOffer)
		api.PUT("/jobs/:id/applications/:studentId", authed, middleware.RequireRole(models.RoleRecruiter), appHandler.SetStatus)
		api.GET("/applications", authed, middleware.RequireRole(models.RoleStudent), appHandler.MyApplications)

		// Resume scoring
		api.POST("/scores", authed, scoreHandler.GetOrCompute)

		// Faculty moderation & analytics
		faculty := api.Group("", authed, middleware.RequireRole(models.RoleFaculty))
		{
			faculty.GET("/accounts/pending", adminHandler.PendingAccounts)
			faculty.PUT("/accounts/:id/approve", adminHandler.ApproveAccount)
			faculty.DELETE("/accounts/:id", adminHandler.RejectAccount)
			faculty.GET("/analytics/overview", adminHandler.Overview)
		}
	}

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
