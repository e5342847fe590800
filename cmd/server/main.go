package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/config"
	cronrunner "rehabtrack/internal/cron"
	"rehabtrack/internal/db"
	"rehabtrack/internal/handler"
	"rehabtrack/internal/logger"
	gormrepository "rehabtrack/internal/repository/gorm"
	"rehabtrack/internal/service"

	_ "rehabtrack/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("RT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("RT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	hub := changefeed.NewHub(store, logger, cfg.Changefeed.CoalesceWindow)
	noteSaver := &service.NoteSaver{
		Repo:     store,
		Logger:   logger,
		Flags:    settingsSvc,
		Hub:      hub,
		Debounce: cfg.Notes.Debounce,
	}
	snapshotSvc := &service.SnapshotService{
		Repo:     store,
		Logger:   logger,
		Flags:    settingsSvc,
		Hub:      hub,
		Interval: cfg.Snapshots.RecomputeInterval,
	}
	drawWatch := &service.DrawWatchService{
		Repo:   store,
		Logger: logger,
		Flags:  settingsSvc,
		Hub:    hub,
		Config: cfg.Draws,
	}
	feedPrune := &service.FeedPruneService{
		Repo:   store,
		Logger: logger,
		Flags:  settingsSvc,
		Config: cfg.Changefeed,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	projectHandler := &handler.ProjectHandler{
		Repo:      store,
		Hub:       hub,
		Notes:     noteSaver,
		Snapshots: snapshotSvc,
	}
	projectHandler.Register(engine)
	budgetHandler := &handler.BudgetHandler{Repo: store, Hub: hub}
	budgetHandler.Register(engine)
	drawHandler := &handler.DrawHandler{Repo: store, Hub: hub}
	drawHandler.Register(engine)
	vendorHandler := &handler.VendorHandler{Repo: store, Hub: hub}
	vendorHandler.Register(engine)
	costRefHandler := &handler.CostReferenceHandler{Repo: store, Hub: hub, Flags: settingsSvc}
	costRefHandler.Register(engine)
	changesHandler := &handler.ChangeFeedHandler{Repo: store}
	changesHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Repo: store, Settings: settingsSvc}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("change feed hub stopped", zap.Error(err))
		}
	}()

	if cfg.Snapshots.Enabled {
		go func() {
			if err := snapshotSvc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("snapshot service stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("snapshot sweep", cfg.Cron.SnapshotSweep, func(ctx context.Context) {
			if err := snapshotSvc.SweepAll(ctx); err != nil {
				logger.Warn("snapshot sweep failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register snapshot sweep failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("stale draw scan", cfg.Cron.StaleDrawScan, func(ctx context.Context) {
			if err := drawWatch.RunOnce(ctx); err != nil {
				logger.Warn("stale draw scan failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register stale draw scan failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("feed prune", cfg.Cron.FeedPrune, func(ctx context.Context) {
			if err := feedPrune.RunOnce(ctx); err != nil {
				logger.Warn("feed prune failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register feed prune failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// Flush any note edits still sitting in the debounce window.
	noteSaver.FlushAll(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
