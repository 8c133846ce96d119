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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Clubs-Council-IIITH/events/api/swagger"
	"github.com/Clubs-Council-IIITH/events/internal/directory"
	"github.com/Clubs-Council-IIITH/events/internal/handler"
	"github.com/Clubs-Council-IIITH/events/internal/middleware"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/internal/repository"
	"github.com/Clubs-Council-IIITH/events/internal/service"
	"github.com/Clubs-Council-IIITH/events/pkg/cache"
	"github.com/Clubs-Council-IIITH/events/pkg/config"
	"github.com/Clubs-Council-IIITH/events/pkg/database"
	"github.com/Clubs-Council-IIITH/events/pkg/jobs"
	"github.com/Clubs-Council-IIITH/events/pkg/logger"
	corsmiddleware "github.com/Clubs-Council-IIITH/events/pkg/middleware/cors"
	reqidmiddleware "github.com/Clubs-Council-IIITH/events/pkg/middleware/requestid"
)

// @title Clubs Council Events API
// @version 1.0.0
// @description Campus event registration, multi-party approval and room booking
// @BasePath /
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
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	eventRepo := repository.NewEventRepository(db)
	eventReportRepo := repository.NewEventReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	// External directory gateway.
	dirClient := directory.NewClient(cfg.Directory, logr)

	// Notification pipeline. The default sink only logs; mailers hook in
	// through service.Sink.
	metricsSvc := service.NewMetricsService()
	workflowSvc := service.NewWorkflowService(eventRepo, nil, cacheRepo, logr)
	if cfg.Notify.Enabled {
		sink := service.SinkFunc(func(_ context.Context, n service.TransitionNotification) error {
			logr.Info("event transition",
				zap.String("event_id", n.EventID),
				zap.String("event_code", n.EventCode),
				zap.String("club_id", n.ClubID),
				zap.String("state", string(n.State)),
				zap.String("action", n.Action))
			return nil
		})
		notifier := service.NewNotifier(sink, dirClient, jobs.QueueConfig{
			Workers:    cfg.Notify.Workers,
			MaxRetries: cfg.Notify.MaxRetries,
			RetryDelay: cfg.Notify.RetryDelay,
			Logger:     logr,
		}, logr)
		notifier.Start(ctx)
		defer notifier.Stop()
		workflowSvc = service.NewWorkflowService(eventRepo, notifier, cacheRepo, logr)
	}

	// Services.
	authSvc := service.NewAuthService(cfg.JWT)
	eventSvc := service.NewEventService(eventRepo, dirClient, dirClient, cacheRepo,
		cfg.Directory.InterServiceSecret, cfg.Directory.FiscalYearStartMonth, logr)
	listingSvc := service.NewListingService(eventRepo, cacheRepo, cfg.Rooms.CacheTTL,
		cfg.Listing.DefaultPastMonths, cfg.Listing.MaxPageSize, metricsSvc, logr)
	roomsSvc := service.NewRoomsService(eventRepo, cacheRepo, cfg.Rooms.CacheTTL, metricsSvc, logr)
	billsSvc := service.NewBillsService(eventRepo, logr)
	reportSvc := service.NewReportService(eventRepo, cfg.Exports.Enabled, logr)
	eventReportSvc := service.NewEventReportService(eventReportRepo, eventRepo, dirClient, logr)

	// Handlers.
	eventHandler := handler.NewEventHandler(eventSvc, listingSvc)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc, metricsSvc)
	roomsHandler := handler.NewRoomsHandler(roomsSvc)
	billsHandler := handler.NewBillsHandler(billsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	eventReportHandler := handler.NewEventReportHandler(eventReportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public endpoints carry the actor when a token is present but never
	// require one.
	public := r.Group("/", middleware.OptionalJWT(authSvc))
	{
		public.GET("/events", eventHandler.List)
		public.GET("/events/code/:code", eventHandler.GetByCode)
		public.GET("/events/:id", eventHandler.Get)
		public.GET("/events/:id/clashes", roomsHandler.Clashes)
		public.GET("/rooms/available", roomsHandler.Available)
	}

	authed := r.Group("/", middleware.JWT(authSvc))
	{
		authed.POST("/events", eventHandler.Create)
		authed.PATCH("/events/:id", eventHandler.Edit)
		authed.GET("/events/incomplete", eventHandler.ListIncomplete)
		authed.GET("/events/pending", eventHandler.ListPending)
		authed.POST("/events/reassign", eventHandler.Reassign)

		authed.POST("/events/:id/submit", workflowHandler.Submit)
		authed.POST("/events/:id/decide",
			middleware.RequireRoles(models.RoleCouncil), workflowHandler.Decide)
		authed.POST("/events/:id/reject",
			middleware.RequireRoles(models.RoleCouncil), workflowHandler.Reject)
		authed.POST("/events/:id/approve-budget",
			middleware.RequireRoles(models.RoleCouncil, models.RoleFinance), workflowHandler.ApproveBudget)
		authed.POST("/events/:id/approve-room",
			middleware.RequireRoles(models.RoleCouncil, models.RoleRoomOffice), workflowHandler.ApproveRoom)
		authed.POST("/events/:id/refresh", workflowHandler.Refresh)
		authed.DELETE("/events/:id", workflowHandler.Delete)

		authed.PATCH("/events/:id/bills",
			middleware.RequireRoles(models.RoleRoomOffice), billsHandler.Update)
		authed.GET("/events/bills",
			middleware.RequireRoles(models.RoleCouncil, models.RoleFinance, models.RoleRoomOffice), billsHandler.List)

		authed.POST("/events/report", reportHandler.Download)

		authed.POST("/events/:id/report", eventReportHandler.Submit)
		authed.GET("/events/:id/report", eventReportHandler.Get)
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
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
