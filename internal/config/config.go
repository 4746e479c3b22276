package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	DataDir       string   // root directory for the file store
	ListenAddr    string   // HTTP listen address
	StorageDriver string   // file, memory or postgres
	PostgresDSN   string   // required when StorageDriver is postgres
	KafkaBrokers  []string // empty disables event publishing
	LogLevel      string
	Development   bool
}

// Load reads configuration from the environment, with a .env file merged in
// when present. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:       os.Getenv("DATA_DIR"),
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		StorageDriver: getenv("STORAGE_DRIVER", DriverFile),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Development:   os.Getenv("APP_ENV") == "development",
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving default data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".arrotondami")
	}

	switch cfg.StorageDriver {
	case DriverFile, DriverMemory, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == DriverPostgres && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required with the postgres driver")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
