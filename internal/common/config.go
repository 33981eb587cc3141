package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all worker configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// QueueConfig holds queue-transport configuration
type QueueConfig struct {
	Address       string
	Password      string
	Key           string
	DeadLetterKey string
}

// StorageConfig holds object-storage configuration
type StorageConfig struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
}

// LLMConfig holds inference-service configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// WorkerConfig holds job-processing configuration
type WorkerConfig struct {
	Workers    int
	JobTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Queue: QueueConfig{
			Address:       getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:      getEnv("VALKEY_PASSWORD", ""),
			Key:           getEnv("QUEUE_KEY", "cv-processing"),
			DeadLetterKey: getEnv("QUEUE_DEAD_LETTER_KEY", "cv-processing:failed"),
		},
		Storage: StorageConfig{
			EndpointURL: getEnv("S3_ENDPOINT_URL", ""),
			Region:      getEnv("S3_REGION", "us-east-1"),
			AccessKey:   getEnv("S3_ACCESS_KEY", ""),
			SecretKey:   getEnv("S3_SECRET_KEY", ""),
			Bucket:      getEnv("S3_BUCKET_NAME", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
		Worker: WorkerConfig{
			Workers:    getEnvAsInt("WORKER_CONCURRENCY", 4),
			JobTimeout: getEnvAsDuration("WORKER_JOB_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Queue.Address == "" {
		return NewAppError("CONFIG_ERROR", "VALKEY_ADDR is required", ErrInvalidInput)
	}
	if c.Storage.Bucket == "" {
		return NewAppError("CONFIG_ERROR", "S3_BUCKET_NAME is required", ErrInvalidInput)
	}
	if c.Worker.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "WORKER_CONCURRENCY must be at least 1", ErrInvalidInput)
	}
	return nil
}
