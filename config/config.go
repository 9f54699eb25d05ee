package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	CORSOrigins   []string
	JWTSecret     string
	TokenTTL      time.Duration
	CSRFAuthKey   string
	LogFile       string
	CacheTTL      time.Duration
	RateLimit     int
	RateWindow    time.Duration
	NotifyWorkers int
	NotifyQueue   int
	Database      DatabaseConfig
	Redis         RedisConfig
}

type DatabaseConfig struct {
	Driver   string // sqlite | postgres
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads the environment, after merging a .env file if one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "release"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		CSRFAuthKey:   getEnv("CSRF_AUTH_KEY", ""),
		LogFile:       getEnv("LOG_FILE", "./logs/app.log"),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
		RateLimit:     getInt("RATE_LIMIT", 60),
		RateWindow:    getDuration("RATE_WINDOW", time.Minute),
		NotifyWorkers: getInt("NOTIFY_WORKERS", 4),
		NotifyQueue:   getInt("NOTIFY_QUEUE", 256),
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "greenverse.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "1234"),
			Name:     getEnv("DB_NAME", "greenverse_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
