package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Moderation ModerationConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

// ModerationConfig configures the outgoing-content guard. Terms is the
// default sensitive-term list applied when a workspace has no policy of
// its own; Mode decides what happens when a flagged message involves a
// minor ("block" rejects it, "flag" persists it and records the flags).
type ModerationConfig struct {
	Mode            string
	Terms           []string
	RecurrenceCount int
	RecurrenceWin   time.Duration
}

type RateLimitConfig struct {
	MessageLimit  int
	MessageWindow time.Duration
}

// LoadConfig loads configuration from environment variables.
// Defaults can be set here if needed.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "coachdesk"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-do-not-use"),
		},
		Moderation: ModerationConfig{
			Mode:            getEnv("MODERATION_MODE", "block"),
			Terms:           getEnvAsList("MODERATION_TERMS", nil),
			RecurrenceCount: getEnvAsInt("MODERATION_RECURRENCE_COUNT", 3),
			RecurrenceWin:   getEnvAsDuration("MODERATION_RECURRENCE_WINDOW", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			MessageLimit:  getEnvAsInt("RATELIMIT_MESSAGE_LIMIT", 60),
			MessageWindow: getEnvAsDuration("RATELIMIT_MESSAGE_WINDOW", 60*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
