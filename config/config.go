package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string // sqlite or mysql
	DBDSN    string

	JWTSecret    []byte
	DemoEmail    string
	DemoPassword string

	// APIBaseURL is where the dashboard session sends backend requests.
	// Empty means this process's own /api.
	APIBaseURL string
	APITimeout time.Duration

	CacheTTL     time.Duration
	RedisURL     string
	SyncInterval time.Duration

	CORSOrigins []string
	RateLimit   int // requests per second per client IP
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:        getEnv("DB_DSN", "restaurant.db"),
		JWTSecret:    []byte(getEnv("JWT_SECRET", "")),
		DemoEmail:    getEnv("DEMO_EMAIL", "demo@restaurant.local"),
		DemoPassword: getEnv("DEMO_PASSWORD", "demo1234"),
		APIBaseURL:   strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		APITimeout:   getDuration("API_TIMEOUT", 0),
		CacheTTL:     getDuration("CACHE_TTL", 30*time.Second),
		RedisURL:     getEnv("REDIS_URL", ""),
		SyncInterval: getDuration("SYNC_INTERVAL", 15*time.Second),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimit:    getInt("RATE_LIMIT", 50),
	}

	if len(cfg.JWTSecret) == 0 {
		utils.InfoLogger.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.JWTSecret = []byte("dev-dashboard-secret")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://127.0.0.1:" + cfg.Port + "/api"
	}
	return cfg
}

// InitDB opens the configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), gormCfg)
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.DBDSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Errorf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.ErrorLogger.Errorf("Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
