// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config 服務設定，全部來自環境變數 (可放在 .env)
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	Port      int    `env:"PORT" envDefault:"8080"`
	JWTSecret string `env:"JWT_SECRET,required"`

	// StoreDriver: memory | redis | postgres | sqlite
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"bloodlink.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MockLatency time.Duration `env:"MOCK_LATENCY" envDefault:"0s"`
	WorkerCount int           `env:"WORKER_COUNT" envDefault:"2"`
}

func defaultLoadDotEnv() error { return godotenv.Load() }

var loadDotEnv = defaultLoadDotEnv

// Load 讀取 .env (若存在) 再解析環境變數
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查各 driver 需要的欄位
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverRedis, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("環境變數 DATABASE_URL 未設定")
		}
	default:
		return fmt.Errorf("無效的 STORE_DRIVER: %q", c.StoreDriver)
	}
	if c.StoreDriver == DriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("環境變數 SQLITE_PATH 未設定")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("無效的 PORT: %d", c.Port)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("無效的 MOCK_LATENCY: %s", c.MockLatency)
	}
	return nil
}

// Addr 回傳 Echo 監聽位址
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
