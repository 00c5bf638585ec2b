package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Ledger
	DataFile       string
	LenientRemove  bool
	CategoryColumn bool

	// Archive backend
	Backend      string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export worker
	ExportFile      string
	ExportBatchSize int
	ExportInterval  time.Duration
}

func Load() *Config {
	cfg := &Config{
		DataFile:       getEnv("DATA_FILE", "./data/expenses.csv"),
		LenientRemove:  getEnvBool("LENIENT_REMOVE", false),
		CategoryColumn: getEnvBool("CSV_CATEGORY_COLUMN", false),

		Backend:      getEnv("ARCHIVE_BACKEND", "none"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_events"),

		ExportFile:      getEnv("EXPORT_FILE", "./data/export.csv"),
		ExportBatchSize: getEnvInt("EXPORT_BATCH_SIZE", 10),
		ExportInterval:  getEnvDuration("EXPORT_INTERVAL", 30*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DataFile == "" {
		errors = append(errors, "data file path cannot be empty")
	}

	validBackends := []string{"none", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid archive backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ExportBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at least 1", c.ExportBatchSize))
	} else if c.ExportBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at most 1000", c.ExportBatchSize))
	}

	if c.ExportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
