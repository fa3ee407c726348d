// File: cmd/service/main.go
// @title        BloodLink API
// @version      1.0
// @description  BloodLink 捐血者管理後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"bloodlink/internal/backend"
	"bloodlink/internal/cache"
	"bloodlink/internal/config"
	"bloodlink/internal/database"
	"bloodlink/internal/logging"
	"bloodlink/internal/router"
	"bloodlink/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	_ "bloodlink/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	openSQLite      = func(path string) (storage.Store, error) { return storage.OpenSQLite(path) }
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

// openStore 依 STORE_DRIVER 建立儲存層；遠端儲存外包一層斷路器
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil

	case config.DriverRedis:
		rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("Redis 連線失敗: %w", err)
		}
		return storage.NewBreakerStore(storage.NewRedisStore(rdb, ""), "redis", log), nil

	case config.DriverPostgres:
		if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		db, err := newPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("DB 連線失敗: %w", err)
		}
		return storage.NewBreakerStore(storage.NewPostgresStore(db), "postgres", log), nil

	case config.DriverSQLite:
		s, err := openSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("SQLite 開啟失敗: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("無效的 STORE_DRIVER: %q", cfg.StoreDriver)
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	log := logging.New(cfg.AppEnv)
	ctx := context.Background()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("關閉儲存層失敗")
		}
	}()

	b := backend.New(store, backend.Options{
		Latency: cfg.MockLatency,
		Logger:  log,
		Workers: cfg.WorkerCount,
	})
	if err := b.Init(ctx); err != nil {
		return fmt.Errorf("初始化資料失敗: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = cfg.AppEnv == "development"
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, b)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	log.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Msg("starting server")
	return startServer(e, cfg.Addr())
}

func main() {
	if err := run(); err != nil {
		logger := logging.New(os.Getenv("APP_ENV"))
		logger.Error().Err(err).Msg("service stopped")
		exitFunc(1)
	}
}
