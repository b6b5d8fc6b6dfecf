package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ingest    IngestConfig
	Retention RetentionConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	PairingSecret string
	JWTSecret     string
	TokenExp      time.Duration
}

type IngestConfig struct {
	QueueSize   int
	WorkerCount int
}

type RetentionConfig struct {
	ArchiveMaxAge time.Duration
	TrashMaxAge   time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// If no .env file found, continue with environment variables
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	tokenExp, _ := strconv.Atoi(getEnv("AUTH_TOKEN_EXPIRATION_HOURS", "720"))
	queueSize, _ := strconv.Atoi(getEnv("INGEST_QUEUE_SIZE", "256"))
	workerCount, _ := strconv.Atoi(getEnv("INGEST_WORKER_COUNT", "2"))
	archiveMaxAge, _ := strconv.Atoi(getEnv("RETENTION_ARCHIVE_DAYS", "365"))
	trashMaxAge, _ := strconv.Atoi(getEnv("RETENTION_TRASH_DAYS", "30"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "smsledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			PairingSecret: getEnv("AUTH_PAIRING_SECRET", ""),
			JWTSecret:     getEnv("AUTH_JWT_SECRET", "change-me-in-production"),
			TokenExp:      time.Duration(tokenExp) * time.Hour,
		},
		Ingest: IngestConfig{
			QueueSize:   queueSize,
			WorkerCount: workerCount,
		},
		Retention: RetentionConfig{
			ArchiveMaxAge: time.Duration(archiveMaxAge) * 24 * time.Hour,
			TrashMaxAge:   time.Duration(trashMaxAge) * 24 * time.Hour,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
