// config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration constants for the application
var (
	// MongoDB configuration
	MongoURI      string
	MongoDatabase string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// ServerPort is the port on which the server will run
	ServerPort int

	// JWTSecret is the signing key for access tokens
	JWTSecret string

	// SMTP configuration for the offline-message email fallback
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// RescoreInterval controls how often persisted matches are rescored
	RescoreInterval time.Duration

	// Application configuration
	AppName    = "SKILLSWAP"
	AppVersion = "1.0.0"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
	}

	// MongoDB configuration
	MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	MongoDatabase = getEnv("MONGO_DATABASE", "skillswap")

	// Server configuration
	portStr := getEnv("SERVER_PORT", "8088")
	if port, err := strconv.Atoi(portStr); err == nil {
		ServerPort = port
	} else {
		ServerPort = 8088
	}

	// JWT configuration
	JWTSecret = getEnv("JWT_SECRET", "skillswap-dev-secret-change-me")

	// Redis configuration
	RedisURL = getEnv("REDIS_URL", "localhost:6379")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	redisDBStr := getEnv("REDIS_DB", "0")
	if db, err := strconv.Atoi(redisDBStr); err == nil {
		RedisDB = db
	} else {
		RedisDB = 0
	}

	// SMTP configuration
	SMTPHost = getEnv("SMTP_HOST", "localhost")
	smtpPortStr := getEnv("SMTP_PORT", "587")
	if port, err := strconv.Atoi(smtpPortStr); err == nil {
		SMTPPort = port
	} else {
		SMTPPort = 587
	}
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPass = getEnv("SMTP_PASS", "")
	EmailFrom = getEnv("EMAIL_FROM", "noreply@skillswap.local")

	// Match rescoring interval in minutes
	intervalStr := getEnv("RESCORE_INTERVAL_MINUTES", "60")
	if minutes, err := strconv.Atoi(intervalStr); err == nil && minutes > 0 {
		RescoreInterval = time.Duration(minutes) * time.Minute
	} else {
		RescoreInterval = time.Hour
	}
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
