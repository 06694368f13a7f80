package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/controller"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/configwatcher"
	"exam_portal_backend/pkg/database"
	"exam_portal_backend/pkg/logger"
	"exam_portal_backend/pkg/monitoring"
	"exam_portal_backend/pkg/security"
	"exam_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	exam       *repository.ExamRepository
	question   *repository.QuestionRepository
	student    *repository.StudentRepository
	result     *repository.ResultRepository
	access     *repository.AccessRepository
	attemptLog *repository.AttemptLogRepository
	enrollment *repository.EnrollmentRepository
	reExam     *repository.ReExamRepository
}

type services struct {
	storage     *service.StorageService
	submission  *service.SubmissionService
	enrollment  *service.EnrollmentService
	reExam      *service.ReExamService
	certificate *service.CertificateService
	question    *service.QuestionService
}

type controllers struct {
	submission  *controller.SubmissionController
	enrollment  *controller.EnrollmentController
	reExam      *controller.ReExamController
	certificate *controller.CertificateController
	question    *controller.QuestionController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		exam:       repository.NewExamRepository(db),
		question:   repository.NewQuestionRepository(db),
		student:    repository.NewStudentRepository(db),
		result:     repository.NewResultRepository(db),
		access:     repository.NewAccessRepository(db),
		attemptLog: repository.NewAttemptLogRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		reExam:     repository.NewReExamRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	log := logger.Log
	s := &services{}

	s.storage = service.NewStorageService(cfg, log)

	records := service.AttemptRecords{
		Results: repos.result,
		Access:  repos.access,
		Logs:    repos.attemptLog,
	}
	s.submission = service.NewSubmissionService(repos.exam, repos.question, records, log)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.access, s.storage, log)
	s.reExam = service.NewReExamService(repos.reExam, log)
	s.certificate = service.NewCertificateService(
		repos.exam,
		repos.student,
		repos.result,
		service.NewHTTPAssetFetcher(&cfg.Certificate),
		log,
	)
	s.question = service.NewQuestionService(repos.question, repos.exam, s.storage, log)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, storageType string) *controllers {
	return &controllers{
		submission:  controller.NewSubmissionController(s.submission),
		enrollment:  controller.NewEnrollmentController(s.enrollment),
		reExam:      controller.NewReExamController(s.reExam),
		certificate: controller.NewCertificateController(s.certificate),
		question:    controller.NewQuestionController(s.question),
		health:      controller.NewHealthController(db, storageType),
	}
}

// Submissions are exempt so a beacon sent on tab close is not throttled.
var rateLimitExempt = []string{
	"/health",
	"/metrics",
	"/api/student/exam/submit",
	"/api/student/submit-exam",
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, rateLimitExempt...))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects the database, runs migrations when asked to and builds the
// router. It returns an error instead of exiting so the command layer decides.
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized", zap.String("mode", cfg.Server.Mode))

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, err
	}

	if cfg.ForceMigrate || cfg.MigrateOnly || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migrated", zap.String("driver", cfg.Database.Driver))
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg)
	ctrls := app.initControllers(svcs, db, cfg.Storage.Type)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
	})

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigDir == "" {
		return
	}
	file := filepath.Join(a.ConfigDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, file, func(newCfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
		logger.Log.Info("Config reloaded", zap.String("file", file))
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() error {
	defer logger.Log.Sync()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.watchConfig(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close releases the database pool. Used after a migrate-only run.
func (a *App) Close() {
	if a.DB == nil {
		return
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
