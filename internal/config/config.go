package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string

	DBDriver string
	DBDSN    string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AdminEmail    string
	AdminPassword string
	SeedDemo      bool
	// public /auth/register may create admins; set ALLOW_ADMIN_SIGNUP=false
	// in production
	AllowAdminSignup bool

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads .env (if present) and the environment. Every key has a
// development fallback; the defaults are not fit for production secrets.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getString("SERVER_PORT", "8080"),
		GinMode:    getString("GIN_MODE", "release"),
		LogLevel:   getString("LOG_LEVEL", "info"),

		DBDriver: getString("DB_DRIVER", "postgres"),
		DBDSN:    os.Getenv("DB_DSN"),

		JWTSecret:       getString("JWT_SECRET", "yourSecretKey"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		AdminEmail:    getString("ADMIN_EMAIL", "admin@rental.local"),
		AdminPassword: getString("ADMIN_PASSWORD", "Admin123!"),
		SeedDemo:      getBool("SEED_DEMO", false),

		AllowAdminSignup: getBool("ALLOW_ADMIN_SIGNUP", true),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: getDuration("AUTH_RATE_WINDOW", time.Minute),
	}

	if cfg.DBDSN == "" {
		cfg.DBDSN = defaultDSN(cfg.DBDriver)
	}

	return cfg
}

func defaultDSN(driver string) string {
	if driver == "sqlite" {
		return getString("DB_PATH", "rental.db")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getString("DB_HOST", "localhost"),
		getString("DB_PORT", "5432"),
		getString("DB_USER", "postgres"),
		getString("DB_PASS", "postgres"),
		getString("DB_NAME", "rentals"),
	)
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid value for %s: %v", key, err)
		return fallback
	}
	return parsed
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid value for %s: %v", key, err)
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		log.Printf("invalid value for %s: %q", key, v)
		return fallback
	}
	return parsed
}
