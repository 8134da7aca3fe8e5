// Package config provides centralized configuration management for racedata.
// Settings come from an optional YAML file named by RACEDATA_CONFIG, then
// from environment variables, then from defaults, and are validated on
// startup to fail fast on misconfiguration.
package config

import "time"

// ConfigFileEnv names the environment variable holding the YAML config path.
const ConfigFileEnv = "RACEDATA_CONFIG"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver is the database/sql driver: sqlite or pgx (default: sqlite)
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" default:"sqlite"`

	// URL is a SQLite file path or a PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `yaml:"url" env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxOpenConns caps open connections; SQLite is always limited to 1 (default: 10)
	MaxOpenConns int `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"10"`

	// MaxIdleConns is the idle pool size (default: 2)
	MaxIdleConns int `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"2"`

	// ConnMaxLifetime is the maximum lifetime of a connection (default: 1h)
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"1h"`

	// BusyTimeout is how long SQLite waits on a locked database (default: 5s)
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"DB_BUSY_TIMEOUT" default:"5s"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// Dir is the directory scanned by "import --dir" when no path is given
	Dir string `yaml:"dir" env:"IMPORT_DIR" default:"data"`

	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `yaml:"max_file_size" env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`

	// Encoding is the character encoding of CSV files: utf-8 or shift_jis (default: utf-8)
	Encoding string `yaml:"encoding" env:"IMPORT_ENCODING" default:"utf-8"`

	// Timeout is the maximum duration for a single file import (default: 10m)
	Timeout time.Duration `yaml:"timeout" env:"IMPORT_TIMEOUT" default:"10m"`

	// MaxConcurrent caps imports writing at the same time (default: 1)
	MaxConcurrent int `yaml:"max_concurrent" env:"IMPORT_MAX_CONCURRENT" default:"1"`

	// LockWait is how long an import waits for a free slot (default: 30s)
	LockWait time.Duration `yaml:"lock_wait" env:"IMPORT_LOCK_WAIT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// IsSQLite reports whether the configured driver is SQLite.
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Driver == "sqlite"
}
