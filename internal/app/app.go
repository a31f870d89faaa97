package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/controller"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/database"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"study_planner_backend/pkg/security"
	"study_planner_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config         *config.Config
	Router         *gin.Engine
	DB             *gorm.DB
	Redis          *redis.Client
	tracerProvider *sdktrace.TracerProvider
}

// Dependencies 组装路由所需的外部依赖，测试中可替换 AI 和 PDF 抽取
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	AI        service.Completer
	Extractor service.TextExtractor
}

type repositories struct {
	class    *repository.ClassRepository
	topic    *repository.TopicRepository
	roadmap  *repository.RoadmapRepository
	progress *repository.ProgressRepository
}

type services struct {
	storage  *service.StorageService
	topic    *service.TopicService
	class    *service.ClassService
	roadmap  *service.RoadmapService
	progress *service.ProgressService
}

type controllers struct {
	class    *controller.ClassController
	roadmap  *controller.RoadmapController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		class:    repository.NewClassRepository(db),
		topic:    repository.NewTopicRepository(db),
		roadmap:  repository.NewRoadmapRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, deps Dependencies) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.topic = service.NewTopicService(deps.AI, cfg.AI)
	s.class = service.NewClassService(repos.class, repos.topic, repos.roadmap, deps.Extractor, s.topic, s.storage)
	s.roadmap = service.NewRoadmapService(
		repos.class,
		repos.topic,
		repos.roadmap,
		repos.progress,
		deps.AI,
		service.NewGenerationLock(deps.Redis, cfg.AI.Timeout),
		cfg.AI,
	)
	s.progress = service.NewProgressService(repos.roadmap, repos.progress)

	return s
}

func initControllers(s *services, cfg *config.Config, deps Dependencies) *controllers {
	return &controllers{
		class:    controller.NewClassController(s.class, cfg),
		roadmap:  controller.NewRoadmapController(s.roadmap),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(deps.DB, deps.Redis),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewRouter 组装仓储、服务、控制器和路由，不做任何外部连接
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.AI == nil {
		deps.AI = service.NewAIService(cfg.AI)
	}
	if deps.Extractor == nil {
		deps.Extractor = service.NewPDFExtractor()
	}

	if err := util.RegisterValidators(); err != nil {
		logger.Log.Fatal("Failed to register validators", zap.Error(err))
	}
	monitoring.Init()

	repos := initRepositories(deps.DB)
	svcs := initServices(repos, cfg, deps)
	ctrls := initControllers(svcs, cfg, deps)

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddlewares(router, cfg)
	registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.Router = NewRouter(cfg, Dependencies{DB: db, Redis: rdb})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 路线生成可能持续到 AI 超时，关闭等待时间与之对齐
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.AI.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
