package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	Port               string
	WelcomeBonusPaise  int64
	JWTSecret          string
	AdminEmail         string
	AdminName          string
	AdminPassword      string
	CORSAllowedOrigins []string
}

// New loads configuration from the environment (and a .env file when present).
// DATABASE_URL is required; everything else has a development default.
// Admin bootstrap is optional: when ADMIN_EMAIL/ADMIN_PASSWORD are unset the
// admin endpoints are still routed but no admin account is seeded.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminName:     os.Getenv("ADMIN_NAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing required env: DATABASE_URL")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "supersecretdev"
	}
	if cfg.AdminName == "" {
		cfg.AdminName = "Administrator"
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	bonus, err := getEnvInt64("WELCOME_BONUS_PAISE", 50000)
	if err != nil {
		return nil, err
	}
	if bonus <= 0 {
		return nil, fmt.Errorf("WELCOME_BONUS_PAISE must be > 0, got %d", bonus)
	}
	cfg.WelcomeBonusPaise = bonus

	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return n, nil
}
