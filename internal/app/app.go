package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"stackit_backend/internal/config"
	"stackit_backend/internal/controller"
	"stackit_backend/internal/repository"
	"stackit_backend/internal/service"
	"stackit_backend/internal/util"
	"stackit_backend/pkg/configwatcher"
	"stackit_backend/pkg/database"
	"stackit_backend/pkg/logger"
	"stackit_backend/pkg/monitoring"
	"stackit_backend/pkg/security"
	"stackit_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	repos          *repositories
	services       *services
	limiter        *security.IPRateLimiter
	tracerProvider *sdktrace.TracerProvider
}

type repositories struct {
	user         *repository.UserRepository
	tag          *repository.TagRepository
	question     *repository.QuestionRepository
	answer       *repository.AnswerRepository
	comment      *repository.CommentRepository
	vote         *repository.VoteRepository
	notification *repository.NotificationRepository
	moderation   *repository.ModerationRepository
}

type services struct {
	classifier   *service.OpenAIClassifier
	hub          *service.NotificationHub
	storage      *service.StorageService
	notification *service.NotificationService
	auth         *service.AuthService
	user         *service.UserService
	tag          *service.TagService
	question     *service.QuestionService
	answer       *service.AnswerService
	comment      *service.CommentService
	vote         *service.VoteService
	moderation   *service.ModerationService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	tag          *controller.TagController
	question     *controller.QuestionController
	answer       *controller.AnswerController
	comment      *controller.CommentController
	notification *controller.NotificationController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		tag:          repository.NewTagRepository(db),
		question:     repository.NewQuestionRepository(db),
		answer:       repository.NewAnswerRepository(db),
		comment:      repository.NewCommentRepository(db),
		vote:         repository.NewVoteRepository(db),
		notification: repository.NewNotificationRepository(db),
		moderation:   repository.NewModerationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.classifier = service.NewOpenAIClassifier(cfg.Moderation)
	s.hub = service.NewNotificationHub(rdb)
	s.storage = service.NewStorageService(cfg)

	// 先落库再推送，推送失败不影响已保存的通知
	s.notification = service.NewNotificationService(
		repos.notification,
		repos.user,
		cfg.Notification.BroadcastConcurrency,
		&service.StoreSink{Store: repos.notification},
		s.hub,
	)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.tag = service.NewTagService(repos.tag, rdb)
	s.question = service.NewQuestionService(repos.question, repos.answer, repos.tag, s.classifier, s.tag)
	s.answer = service.NewAnswerService(repos.answer, repos.question, s.classifier, s.notification)
	s.comment = service.NewCommentService(repos.comment, repos.answer, repos.question, s.classifier, s.notification)
	s.vote = service.NewVoteService(repos.vote)
	s.moderation = service.NewModerationService(repos.moderation, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.question, s.answer),
		tag:          controller.NewTagController(s.tag),
		question:     controller.NewQuestionController(s.question, s.vote),
		answer:       controller.NewAnswerController(s.answer, s.vote),
		comment:      controller.NewCommentController(s.comment),
		notification: controller.NewNotificationController(s.notification, s.hub),
		admin:        controller.NewAdminController(s.moderation, s.user, s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func rateWindow(cfg *config.Config) time.Duration {
	if cfg.RateLimit.WindowMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
}

// onConfigReload 热更新只覆盖审核分类器和限流参数，其余配置需要重启
func (a *App) onConfigReload(cfg *config.Config) {
	a.services.classifier.Reload(cfg.Moderation)
	a.limiter.SetLimit(cfg.RateLimit.MaxRequests, rateWindow(cfg))
	logger.Log.Info("Runtime settings updated",
		zap.String("moderationModel", cfg.Moderation.Model),
		zap.Int("rateLimit", cfg.RateLimit.MaxRequests))
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	go a.services.hub.Run(ctx)
	go a.limiter.Run(ctx)

	if a.ConfigPath != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigPath, a.onConfigReload); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

func NewApp(cfg *config.Config, configPath string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if err := util.RegisterValidators(); err != nil {
		return nil, err
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}

	// release 模式下默认不自动迁移，需要显式指定
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Error("Failed to migrate database", zap.Error(err))
			return nil, err
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Error("Failed to initialize redis", zap.Error(err))
		return nil, err
	}

	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		DB:         db,
		Redis:      rdb,
		limiter:    security.NewIPRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg)),
	}

	app.repos = app.initRepositories(db)
	app.services = app.initServices(app.repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("stackit", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
		app.tracerProvider = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, app.repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startBackgroundTasks(ctx)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 关闭 WebSocket 连接和后台任务
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
