package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"swap-calldata.backend/internal/config"
	"swap-calldata.backend/internal/infrastructure/blockchain"
	"swap-calldata.backend/internal/infrastructure/metrics"
	"swap-calldata.backend/internal/infrastructure/repositories"
	"swap-calldata.backend/internal/interfaces/http/handlers"
	"swap-calldata.backend/internal/interfaces/http/middleware"
	"swap-calldata.backend/internal/usecases"
	"swap-calldata.backend/pkg/logger"
	"swap-calldata.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	metricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler                          = func() http.Handler { return promhttp.Handler() }
	runServer                               = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB                                = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	if cfg.Server.LogLevel != "" {
		if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
			logger.Warn(ctx, "Ignoring invalid LOG_LEVEL", zap.String("level", cfg.Server.LogLevel))
		}
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs idempotent replay of compiled calldata
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, no chain will be served", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	recorder, err := metrics.NewRecorder(metricsRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Registries are built once at boot and shared read-only by requests
	deploymentRepo := repositories.NewProxyDeploymentRepository(db)
	nonceFinder := blockchain.NewTransformerNonceFinder(cfg.Compiler.TransformerNonceSearchLimit)
	registries, err := usecases.LoadFeatureRuleRegistries(ctx, deploymentRepo, nonceFinder)
	if err != nil {
		logger.Warn(ctx, "Failed to load proxy deployments", zap.Error(err))
		registries = nil
	}

	swapUsecase := usecases.NewSwapCalldataUsecase(registries, recorder)
	logger.Info(ctx, "Swap calldata compiler ready", zap.Int("chains", len(swapUsecase.Chains())))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	if cfg.Server.MetricsEnabled {
		registerMetricsRoute(r, metricsHandler())
	}
	registerAPIV1Routes(r, routeDeps{
		swapCalldataHandler: handlers.NewSwapCalldataHandler(swapUsecase),
		idempotency:         middleware.IdempotencyMiddleware(cfg.Compiler.IdempotencyRetention),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "Swap calldata backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
