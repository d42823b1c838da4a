package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"
)

// Config is read from the environment. Zero timeouts defer to the source profile.
type Config struct {
	Environment          string
	AppName              string
	Port                 string
	LogLevel             slog.Level
	SourcesConfigPath    string
	SourceBaseURL        string
	FetchTimeoutSeconds  int
	DetailTimeoutSeconds int
	CacheBackend         string
	CacheSQLiteDSN       string
	ExportConcurrency    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		AppName:              getEnv("APP_NAME", "livechart-api"),
		Port:                 getEnv("APP_PORT", "3000"),
		SourcesConfigPath:    getEnv("SOURCES_CONFIG_PATH", ""),
		SourceBaseURL:        getEnv("SOURCE_BASE_URL", ""),
		FetchTimeoutSeconds:  getEnvAsInt("FETCH_TIMEOUT_SECONDS", 0),
		DetailTimeoutSeconds: getEnvAsInt("DETAIL_TIMEOUT_SECONDS", 0),
		CacheBackend:         strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		CacheSQLiteDSN:       getEnv("CACHE_SQLITE_DSN", ""),
		ExportConcurrency:    getEnvAsInt("EXPORT_CONCURRENCY", 4),
	}

	if cfg.FetchTimeoutSeconds < 0 {
		cfg.FetchTimeoutSeconds = 0
	}
	if cfg.DetailTimeoutSeconds < 0 {
		cfg.DetailTimeoutSeconds = 0
	}
	if cfg.ExportConcurrency <= 0 {
		cfg.ExportConcurrency = 4
	}

	switch cfg.CacheBackend {
	case CacheBackendMemory, CacheBackendSQLite:
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q, expected memory|sqlite", cfg.CacheBackend)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
