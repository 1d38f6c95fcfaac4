package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTPPort     string
	DatabaseDSN  string
	CORSOrigins  string
	LogMode      string
	LogLevel     string // overrides the mode default when set
	AdminUserID  string // the only identity allowed to upload and save
	StoreBackend string // postgres | redis
	RedisAddr    string
	RedisPrefix  string
	ChunkMaxRows int // rows per persisted chunk
	LoadWorkers  int // concurrent chunk reads per table
	UploadMaxMB  int
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=dashboard port=5432 sslmode=disable"

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", defaultDSN),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogMode:      getEnv("LOG_MODE", "development"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		AdminUserID:  getEnv("ADMIN_USER_ID", "admin"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:  getEnv("REDIS_PREFIX", "dashboard"),
	}

	var err error
	if cfg.ChunkMaxRows, err = getEnvInt("CHUNK_MAX_ROWS", 500); err != nil {
		return nil, err
	}
	if cfg.LoadWorkers, err = getEnvInt("LOAD_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.UploadMaxMB, err = getEnvInt("UPLOAD_MAX_MB", 32); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value; set it for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value; set it for production.")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendRedis, c.StoreBackend)
	}
	if c.ChunkMaxRows <= 0 {
		return fmt.Errorf("CHUNK_MAX_ROWS must be positive, got %d", c.ChunkMaxRows)
	}
	if c.LoadWorkers <= 0 {
		return fmt.Errorf("LOAD_CONCURRENCY must be positive, got %d", c.LoadWorkers)
	}
	if strings.TrimSpace(c.AdminUserID) == "" {
		return fmt.Errorf("ADMIN_USER_ID must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
