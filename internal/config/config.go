package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	OCRServiceURL string
	OCRTimeout    time.Duration

	CacheRedisAddr     string
	CacheRedisPassword string
	CacheRedisDB       int
	CacheTTL           time.Duration
	CacheYearlyTTL     time.Duration

	MaxUploadFiles int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "saralbooks"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "saralbooks"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		OCRServiceURL: getenv("OCR_SERVICE_URL", "http://localhost:8000/extract"),
		OCRTimeout:    time.Duration(getenvInt("OCR_TIMEOUT_SECONDS", 30)) * time.Second,

		CacheRedisAddr:     strings.TrimSpace(getenv("CACHE_REDIS_ADDR", "")),
		CacheRedisPassword: strings.TrimSpace(getenv("CACHE_REDIS_PASSWORD", "")),
		CacheRedisDB:       getenvInt("CACHE_REDIS_DB", 0),
		CacheTTL:           time.Duration(getenvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheYearlyTTL:     time.Duration(getenvInt("CACHE_YEARLY_TTL_SECONDS", 600)) * time.Second,

		MaxUploadFiles: getenvInt("MAX_UPLOAD_FILES", 20),
	}
}

// Module wires configuration loading.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
