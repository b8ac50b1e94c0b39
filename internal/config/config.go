package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	JWTSecret       string
	FrontendURL     string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	EmailFrom       string
	CleanupSchedule string // cron expression for the stale-account sweep
}

// Load loads configuration from a .env file (if present) and the
// environment, falling back to defaults where a variable is unset.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./cashtrackr.db"),
		JWTSecret:       secret,
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        smtpPort,
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		EmailFrom:       getEnv("EMAIL_FROM", "Budget <no-reply@cashtrackr.local>"),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 3 * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
