package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	DataFile   string // Path to the JSON data file
	BackupDir  string // Directory for periodic data file snapshots
	BackupCron string // Standard cron expression for the snapshot schedule
	CORSOrigin string
	LogLevel   string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first, if present.
func Load() (*Config, error) {
	// Missing .env is fine; real environment variables take precedence anyway.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort: port,
		DataFile:   getEnv("DATA_FILE", "./data/users.json"),
		BackupDir:  getEnv("BACKUP_DIR", "./data/backups"),
		BackupCron: getEnv("BACKUP_CRON", "0 * * * *"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
