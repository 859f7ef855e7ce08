package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database config
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // SQLite database file path

	// Auth config
	JWTSecret      string
	JWTExpiryHours int

	// Mail config
	SMTPHost     string
	SMTPPort     string
	MailUsername string
	MailPassword string
	MailFrom     string
	MailFromName string

	// App config
	Environment string
	ClientURL   string
}

// Load reads configuration from the environment with fallbacks
func Load() Config {
	return Config{
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "fieldtrack"),
		DBPath:         getEnv("DB_PATH", "./fieldtrack.db"),
		JWTSecret:      getEnv("JWT_SECRET", "fieldtrack_default_secret_key"),
		JWTExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		MailUsername:   getEnv("MAIL_USERNAME", ""),
		MailPassword:   getEnv("MAIL_PASSWORD", ""),
		MailFrom:       getEnv("MAIL_FROM_ADDRESS", "no-reply@fieldtrack.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "FieldTrack Admin"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		ClientURL:      getEnv("CLIENT_URL", "http://localhost:3000"),
	}
}

// Helper function to get environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get integer environment variable with fallback
func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// JWTExpiration returns the configured token lifetime
func (c Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// IsDevelopment returns true if the application is running in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
