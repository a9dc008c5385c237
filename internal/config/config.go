package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultChiefPassword is the development fallback for the bootstrap chief
// admin. Startup logs a warning whenever it is in use.
const DefaultChiefPassword = "ChiefAdmin@2025"

type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	RedisAddr          string
	JWTSecret          string
	JWTIssuer          string
	AccessTokenTTL     time.Duration
	SessionTTL         time.Duration
	ChiefAdminEmail    string
	ChiefAdminPassword string
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8084"),
		DatabaseURL:        getenv("DATABASE_URL", ""),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		JWTSecret:          getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:          getenv("JWT_ISSUER", "regen-insight"),
		AccessTokenTTL:     getenvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		SessionTTL:         getenvDuration("SESSION_TTL", 30*24*time.Hour),
		ChiefAdminEmail:    getenv("CHIEF_ADMIN_EMAIL", "chief.raydun@gmail.com"),
		ChiefAdminPassword: getenv("CHIEF_ADMIN_PASSWORD", DefaultChiefPassword),
	}
}

// UsingDefaultChiefPassword reports whether the bootstrap credential was left
// at the development default.
func (c Config) UsingDefaultChiefPassword() bool {
	return c.ChiefAdminPassword == DefaultChiefPassword
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
