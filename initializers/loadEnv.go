package initializers

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	AppEnv       string
	Port         string
	LogLevel     string
	DBDriver     string
	DatabaseURL  string
	JWTSecret    string
	JWTExpiresIn time.Duration
	CORSOrigins  []string
	RedisAddr    string
	CacheTTL     time.Duration
	S3Bucket     string
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

var Config AppConfig

// LoadEnv reads .env when present and fills Config from the environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	Config = AppConfig{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		S3Bucket:     os.Getenv("S3_BUCKET"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain numbers are seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
