package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP server
	Port string

	// Storage backend: csv, sqlite or memory
	DataBackend string
	DataDir     string // csv backend: directory holding the record files
	CSVShared   bool   // csv backend: one shared file with an owner column
	SQLiteDB    string

	// Category mapping (optional TOML file)
	TaxonomyFile string

	// Change events (optional; empty URL disables publication)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Mirror worker archive
	ArchiveSQLiteDB string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "csv"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		CSVShared:   getEnvBool("CSV_SHARED", false),
		SQLiteDB:    getEnv("SQLITE_DB_PATH", "./data/hisaab.db"),

		TaxonomyFile: getEnv("TAXONOMY_FILE", "./categories.toml"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "hisaab"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		ArchiveSQLiteDB: getEnv("ARCHIVE_SQLITE_DB_PATH", "./data/hisaab-archive.db"),
	}
}

// Validate checks the configuration and returns an error naming every
// problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "csv":
		if c.DataDir == "" {
			problems = append(problems, "data directory cannot be empty when using csv backend")
		}
	case "sqlite":
		if c.SQLiteDB == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDB); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "memory":
		// Nothing to check.
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [csv sqlite memory]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
