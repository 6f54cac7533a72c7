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

	_ "github.com/pm-ajay/adarsh-gram-api/api/swagger"
	"github.com/pm-ajay/adarsh-gram-api/internal/handler"
	"github.com/pm-ajay/adarsh-gram-api/internal/middleware"
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/repository"
	"github.com/pm-ajay/adarsh-gram-api/internal/service"
	"github.com/pm-ajay/adarsh-gram-api/pkg/cache"
	"github.com/pm-ajay/adarsh-gram-api/pkg/config"
	"github.com/pm-ajay/adarsh-gram-api/pkg/database"
	"github.com/pm-ajay/adarsh-gram-api/pkg/jobs"
	"github.com/pm-ajay/adarsh-gram-api/pkg/logger"
	corsmiddleware "github.com/pm-ajay/adarsh-gram-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pm-ajay/adarsh-gram-api/pkg/middleware/requestid"
	"github.com/pm-ajay/adarsh-gram-api/pkg/storage"
)

// @title PM-AJAY Adarsh Gram Portal API
// @version 1.0.0
// @description Role-gated portal API for village development tracking
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	villageRepo := repository.NewVillageRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "adarsh-gram-api",
		Audience:           []string{"adarsh-gram-portal"},
	})
	navSvc := service.NewNavigationService()
	villageSvc := service.NewVillageService(villageRepo, logr)
	projectSvc := service.NewProjectService(projectRepo, userRepo, validate, logr)
	grievanceSvc := service.NewGrievanceService(grievanceRepo, villageRepo, userRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(villageRepo, projectRepo, grievanceRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(service.ExportServiceParams{
			Villages:        villageRepo,
			Projects:        projectRepo,
			Grievances:      grievanceRepo,
			VillageCounts:   villageRepo,
			ProjectCounts:   projectRepo,
			GrievanceCounts: grievanceRepo,
			Storage:         fileStore,
			Signer:          signer,
			Config: service.ExportConfig{
				APIPrefix: cfg.APIPrefix,
				ResultTTL: cfg.Reports.SignedURLTTL,
			},
			Logger: logr,
		})

		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			BufferSize: 64,
			MaxRetries: cfg.Reports.WorkerRetries,
			RetryDelay: 5 * time.Second,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportSvc = service.NewReportService(reportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	navHandler := handler.NewNavigationHandler(navSvc)
	villageHandler := handler.NewVillageHandler(villageSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	grievanceHandler := handler.NewGrievanceHandler(grievanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	portalHandler := handler.NewPortalHandler(dashboardSvc)
	userHandler := handler.NewUserHandler(userSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
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

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	api.GET("/navigation/sections", middleware.JWT(authSvc), navHandler.Sections)

	villages := api.Group("/villages", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionVillages))
	{
		villages.GET("", villageHandler.List)
		villages.GET("/:id", villageHandler.Get)
	}

	projects := api.Group("/projects", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionProjects))
	{
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PATCH("/:id/progress",
			middleware.RequireRoles(string(models.RoleCentralAdmin), string(models.RoleStateAdmin), string(models.RoleDistrictAdmin)),
			projectHandler.UpdateProgress)
	}

	grievances := api.Group("/grievances", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionGrievances))
	{
		grievances.GET("", grievanceHandler.List)
		grievances.GET("/:id", grievanceHandler.Get)
		grievances.POST("", grievanceHandler.Create)
		grievances.PATCH("/:id/status",
			middleware.RequireRoles(string(models.RoleCentralAdmin), string(models.RoleStateAdmin), string(models.RoleDistrictAdmin), string(models.RoleVillageAdmin)),
			grievanceHandler.UpdateStatus)
		grievances.POST("/:id/response",
			middleware.RequireRoles(string(models.RoleCentralAdmin), string(models.RoleStateAdmin), string(models.RoleDistrictAdmin), string(models.RoleVillageAdmin)),
			grievanceHandler.Respond)
	}

	dashboard := api.Group("/dashboard", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionDashboard))
	{
		dashboard.GET("/stats", dashboardHandler.Stats)
	}

	if cfg.Reports.Enabled {
		reportHandler := handler.NewReportHandler(reportSvc)
		reports := api.Group("/reports")
		{
			authed := reports.Group("", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionReports))
			authed.POST("", middleware.Audit(userRepo, "REPORT_REQUEST", "reports"), reportHandler.Create)
			authed.GET("/:id", reportHandler.Status)
			// the signed token is the credential here
			reports.GET("/download/:token", reportHandler.Download)
		}
	}

	users := api.Group("/users", middleware.JWT(authSvc), middleware.RequireSection(navSvc, models.SectionUsers))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	if cfg.Portal.Enabled {
		// anonymous by design; claims attach when present so request logs
		// can distinguish signed-in visitors
		api.GET("/portal/summary", middleware.OptionalJWT(authSvc), portalHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
