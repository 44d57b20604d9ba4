package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	KiotViet KiotVietConfig
	Database DatabaseConfig
	Sync     SyncConfig
}

// KiotVietConfig holds KiotViet API connection settings
type KiotVietConfig struct {
	BaseURL  string
	Retailer string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// SyncConfig holds throttle intervals for the sync pipeline. The external API
// publishes no rate limit, so these are pacing knobs rather than hard caps.
type SyncConfig struct {
	PageDelay    time.Duration // between product/customer page fetches
	InvoiceDelay time.Duration // between invoice page fetches
	WriteDelay   time.Duration // between destination write batches
	BatchSize    int           // rows per destination write batch
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	baseURL := os.Getenv("KIOTVIET_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("KIOTVIET_BASE_URL is required")
	}

	return &Config{
		KiotViet: KiotVietConfig{
			BaseURL:  baseURL,
			Retailer: getEnv("KIOTVIET_RETAILER", "gaolamthuy"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "gaolamthuy"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Sync: SyncConfig{
			PageDelay:    getEnvMillis("SYNC_PAGE_DELAY_MS", 300),
			InvoiceDelay: getEnvMillis("SYNC_INVOICE_DELAY_MS", 1000),
			WriteDelay:   getEnvMillis("SYNC_WRITE_DELAY_MS", 300),
			BatchSize:    getEnvInt("SYNC_BATCH_SIZE", 100),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Millisecond
}
