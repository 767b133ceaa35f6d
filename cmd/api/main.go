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

	_ "github.com/MaximusTitan/cms-api/api/swagger"
	"github.com/MaximusTitan/cms-api/internal/handler"
	"github.com/MaximusTitan/cms-api/internal/middleware"
	"github.com/MaximusTitan/cms-api/internal/repository"
	"github.com/MaximusTitan/cms-api/internal/service"
	"github.com/MaximusTitan/cms-api/pkg/cache"
	"github.com/MaximusTitan/cms-api/pkg/config"
	"github.com/MaximusTitan/cms-api/pkg/database"
	"github.com/MaximusTitan/cms-api/pkg/identity"
	"github.com/MaximusTitan/cms-api/pkg/jobs"
	"github.com/MaximusTitan/cms-api/pkg/logger"
	"github.com/MaximusTitan/cms-api/pkg/mail"
	corsmiddleware "github.com/MaximusTitan/cms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/MaximusTitan/cms-api/pkg/middleware/requestid"
)

// @title Academy CMS API
// @version 1.0.0
// @description Role-based administration API for batches, lessons, people and announcements
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
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Reference-data caching degrades to direct reads without Redis.
		logr.Sugar().Warnw("redis unavailable, reference data served uncached", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	batchRepo := repository.NewBatchRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	dmRepo := repository.NewDeliveryManagerRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, metricsSvc, logr)

	identityClient := identity.NewClient(cfg.Identity)

	var sender mail.Sender
	if cfg.Mail.Enabled && cfg.Mail.SendGrid != "" {
		sender = mail.NewSendGridSender(cfg.Mail.SendGrid, cfg.Mail.FromName, cfg.Mail.FromEmail)
	} else {
		sender = mail.NewConsoleSender(logr)
	}

	mailQueue := jobs.NewQueue("mail", func(ctx context.Context, task jobs.Task) error {
		msg, ok := task.Payload.(mail.Message)
		if !ok {
			return fmt.Errorf("task %s has unexpected payload %T", task.ID, task.Payload)
		}
		return sender.Send(ctx, msg)
	}, jobs.Options{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.MaxRetries,
		RetryDelay: cfg.Mail.RetryDelay,
		Logger:     logr,
		OnEnqueue:  func(jobs.Task) { metricsSvc.RecordMailEnqueued() },
	})
	mailQueue.Start(context.Background())
	defer mailQueue.Stop()

	refDataSvc := service.NewRefDataService(cacheRepo, teacherRepo, gradeRepo, dmRepo, batchRepo, subjectRepo, cfg.RefData.CacheTTL, logr)
	authSvc := service.NewAuthService(cfg.JWT.Secret, logr)

	batchSvc := service.NewBatchService(batchRepo, refDataSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, batchRepo, identityClient, refDataSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, identityClient, refDataSvc, validate, logr)
	dmSvc := service.NewDeliveryManagerService(dmRepo, identityClient, refDataSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, refDataSvc, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, mailQueue, validate, logr)
	recordingSvc := service.NewRecordingService(recordingRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(lessonRepo, eventRepo, logr)
	exportSvc := service.NewExportService(batchRepo, logr)

	if cfg.Reminders.Enabled {
		reminderSvc := service.NewReminderService(lessonRepo, announcementRepo, mailQueue, cfg.Reminders.Schedule, logr)
		if err := reminderSvc.Start(); err != nil {
			logr.Sugar().Fatalw("failed to start lesson reminders", "error", err)
		}
		defer reminderSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := &handler.Handlers{
		Auth:          authSvc,
		Metrics:       metricsHandler,
		Batches:       handler.NewBatchHandler(batchSvc, exportSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Teachers:      handler.NewTeacherHandler(teacherSvc),
		Managers:      handler.NewDeliveryManagerHandler(dmSvc),
		Subjects:      handler.NewSubjectHandler(subjectSvc),
		Lessons:       handler.NewLessonHandler(lessonSvc),
		Events:        handler.NewEventHandler(eventSvc),
		Announcements: handler.NewAnnouncementHandler(announcementSvc),
		Recordings:    handler.NewRecordingHandler(recordingSvc),
		Calendar:      handler.NewCalendarHandler(scheduleSvc),
		RefData:       handler.NewRefDataHandler(refDataSvc),
	}
	handlers.Register(r, cfg.APIPrefix)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
