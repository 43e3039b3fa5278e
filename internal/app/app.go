package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kidquiz_local/internal/client"
	"kidquiz_local/internal/config"
	"kidquiz_local/internal/controller"
	"kidquiz_local/internal/migration"
	"kidquiz_local/internal/repository"
	"kidquiz_local/internal/service"
	"kidquiz_local/pkg/configwatcher"
	"kidquiz_local/pkg/database"
	"kidquiz_local/pkg/logger"
	"kidquiz_local/pkg/monitoring"
	"kidquiz_local/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB

	services *services

	cfgMu           sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	content     *repository.ContentRepository
	userSubject *repository.UserSubjectRepository
	progress    *repository.ProgressRepository
	sessionLog  *repository.SessionLogRepository
	reward      *repository.RewardRepository
	stats       *repository.StatsRepository
	sync        *repository.SyncRepository
}

type services struct {
	token     *service.TokenService
	content   *service.ContentService
	progress  *service.ProgressService
	reward    *service.RewardService
	dashboard *service.DashboardService
	sync      *service.SyncService
}

type controllers struct {
	health    *controller.HealthController
	auth      *controller.AuthController
	content   *controller.ContentController
	session   *controller.SessionController
	dashboard *controller.DashboardController
	sync      *controller.SyncController
	admin     *controller.AdminController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) ApplyConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		content:     repository.NewContentRepository(db),
		userSubject: repository.NewUserSubjectRepository(db),
		progress:    repository.NewProgressRepository(db),
		sessionLog:  repository.NewSessionLogRepository(db),
		reward:      repository.NewRewardRepository(db),
		stats:       repository.NewStatsRepository(db),
		sync:        repository.NewSyncRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.token = service.NewTokenService(cfg.Sync.TokenPath)
	s.reward = service.NewRewardService()
	s.content = service.NewContentService(repos.content, repos.userSubject, cfg.Quiz)
	s.progress = service.NewProgressService(db, s.reward, repos.progress, repos.sessionLog, repos.content, cfg.Quiz)
	s.dashboard = service.NewDashboardService(repos.stats, repos.reward)

	syncClient := client.NewSyncClient(cfg.Sync)
	s.sync = service.NewSyncService(db, syncClient, s.token, cfg.Sync)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.sync.UpdateConfig(newCfg.Sync)
	})

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		health:    controller.NewHealthController(db),
		auth:      controller.NewAuthController(s.token),
		content:   controller.NewContentController(s.content),
		session:   controller.NewSessionController(s.content, s.progress, s.sync),
		dashboard: controller.NewDashboardController(s.dashboard, s.progress),
		sync:      controller.NewSyncController(s.sync),
		admin:     controller.NewAdminController(a.Config, repos.sync),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.LoopbackOnly())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 启动时先同步一次，之后按固定间隔触发。
// Sync 内部有单飞保护，和 UI 触发的同步重叠也只跑一次。
func (a *App) startBackgroundTasks(s *services) {
	if a.Config.Sync.DisablePeriodic {
		return
	}
	go func() {
		s.sync.Sync(context.Background())

		ticker := time.NewTicker(a.Config.Sync.Interval)
		defer ticker.Stop()
		for range ticker.C {
			s.sync.Sync(context.Background())
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 建表失败中止启动，单列迁移失败只记日志（见 migration 包）
	if err := migration.NewMigrator(db).EnsureSchema(); err != nil {
		logger.Log.Fatal("Failed to migrate database schema", zap.Error(err))
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	if cfg.SeedContent {
		if err := services.content.SeedFromFile("configs/seed_content.json"); err != nil {
			logger.Log.Error("Failed to seed content", zap.Error(err))
		}
	}

	if cfg.MigrateOnly {
		return app
	}

	monitoring.Init()

	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	go configwatcher.WatchConfig("configs/config.yaml", app.ApplyConfig)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    "127.0.0.1:" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Local core listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
}
