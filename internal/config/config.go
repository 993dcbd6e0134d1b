package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds PostgreSQL connection settings for the DAViCal database.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	TimeoutSec         int
}

// MinIOConfig holds settings for exporting collections to S3-compatible storage.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// LogConfig selects the diagnostic logger level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration for one invocation.
// Values come from the environment; command-line flags override them afterwards.
type AppConfig struct {
	Database       DatabaseConfig
	Export         MinIOConfig
	Log            LogConfig
	OutputFormat   string
	PushgatewayURL string
	DocDir         string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is auto-loaded by the main package;
// real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "davical_dba"),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", "davical"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 2),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 60),
			TimeoutSec:         getEnvInt("DB_TIMEOUT_SEC", 10),
		},
		Export: MinIOConfig{
			Endpoint:  getEnv("EXPORT_MINIO_ENDPOINT", ""),
			AccessKey: getEnv("EXPORT_MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("EXPORT_MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("EXPORT_MINIO_BUCKET", ""),
			Prefix:    getEnv("EXPORT_MINIO_PREFIX", ""),
			UseSSL:    getEnvBool("EXPORT_MINIO_USE_SSL", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		OutputFormat:   getEnv("OUTPUT_FORMAT", "table"),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		DocDir:         getEnv("DOC_DIR", "/usr/share/doc/davical-cmdlnut/"),
	}
}

// LoadFile loads variables from an env file into the process environment.
// Variables that are already set are left untouched.
func LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
