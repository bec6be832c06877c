package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/aegisworks/aegis-api/api/swagger"
	"github.com/aegisworks/aegis-api/internal/client"
	"github.com/aegisworks/aegis-api/internal/handler"
	"github.com/aegisworks/aegis-api/internal/middleware"
	"github.com/aegisworks/aegis-api/internal/models"
	"github.com/aegisworks/aegis-api/internal/repository"
	"github.com/aegisworks/aegis-api/internal/service"
	"github.com/aegisworks/aegis-api/pkg/cache"
	"github.com/aegisworks/aegis-api/pkg/config"
	"github.com/aegisworks/aegis-api/pkg/database"
	"github.com/aegisworks/aegis-api/pkg/logger"
	corsmiddleware "github.com/aegisworks/aegis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aegisworks/aegis-api/pkg/middleware/requestid"
	"github.com/aegisworks/aegis-api/pkg/storage"
)

// @title Aegis Careers API
// @version 1.0.0
// @description Job portal with guided mentorship sessions
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}

	localStorage, err := storage.NewLocalStorage(cfg.Resume.StorageDir)
	if err != nil {
		logr.Fatal("failed to init resume storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Resume.SignedURLSecret, cfg.Resume.SignedURLTTL)
	scorer := client.NewScoringClient(cfg.Scoring.BaseURL, cfg.Scoring.Timeout)

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewSessionRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	jobRepo := repository.NewJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	requestSvc := service.NewRequestService(requestRepo, userRepo, notificationSvc, validate, logr)
	mentorshipSvc := service.NewMentorshipService(requestSvc, sessionRepo, notificationSvc, userRepo, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, requestRepo, userRepo, notificationSvc, validate, logr)
	guideSvc := service.NewGuideService(userRepo, cacheRepo, cfg.Guides.CacheTTL, logr)
	companySvc := service.NewCompanyService(companyRepo, cacheRepo, cfg.Guides.CacheTTL, logr)
	jobSvc := service.NewJobService(jobRepo, companySvc, validate, logr)
	resumeSvc := service.NewResumeService(scorer, localStorage, jobRepo, cfg.Resume.AllowedExtensions, cfg.Resume.MaxFileSizeBytes, logr)
	screeningSvc := service.NewScreeningService(scorer, resumeSvc, localStorage, signer, cfg.Resume.WorkerConcurrency, cfg.Resume.WorkerRetries, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screeningSvc.Start(ctx)
	defer screeningSvc.Stop()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	guideHandler := handler.NewGuideHandler(guideSvc)
	requestHandler := handler.NewRequestHandler(requestSvc, mentorshipSvc, metricsSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	companyHandler := handler.NewCompanyHandler(companySvc)
	jobHandler := handler.NewJobHandler(jobSvc)
	resumeHandler := handler.NewResumeHandler(resumeSvc, screeningSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/guides", guideHandler.List)
		api.GET("/companies", companyHandler.List)
		api.GET("/jobs", jobHandler.List)
		api.GET("/jobs/:id", jobHandler.Get)
		api.GET("/resume/screen/reports/:token", resumeHandler.DownloadReport)

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.POST("/request-session", middleware.RequireRoles(models.RoleProgrammer), requestHandler.Submit)
			authed.GET("/session-requests/:guide_id", middleware.RBAC(string(models.RoleGuide), "SELF"), requestHandler.ListPending)
			authed.PUT("/session-requests/:id/update", middleware.RequireRoles(models.RoleGuide), requestHandler.Decide)

			authed.POST("/sessions", middleware.RequireRoles(models.RoleGuide), sessionHandler.Create)
			authed.GET("/sessions", sessionHandler.List)
			authed.GET("/sessions/guide/:guide_id", middleware.RBAC(string(models.RoleGuide), "SELF"), sessionHandler.ListForGuide)
			authed.GET("/sessions/programmer", middleware.RequireRoles(models.RoleProgrammer), sessionHandler.ListForProgrammer)

			authed.GET("/notifications/:user_id", middleware.RBAC("SELF"), notificationHandler.ListForUser)
			authed.PUT("/notifications/:id/read", notificationHandler.MarkRead)

			authed.POST("/jobs", middleware.RequireRoles(models.RoleRecruiter), jobHandler.Upsert)

			authed.POST("/analyze-resume", resumeHandler.Analyze)
			authed.POST("/resume/screen", middleware.RequireRoles(models.RoleRecruiter), resumeHandler.Screen)
			authed.POST("/resume/job-finding", middleware.RequireRoles(models.RoleProgrammer), resumeHandler.FindJobs)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
