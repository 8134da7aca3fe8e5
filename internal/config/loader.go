package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the optional YAML file named by RACEDATA_CONFIG, applies
// environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadFile decodes a YAML config file into cfg. Unknown keys are rejected so
// that typos surface at startup.
func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// fieldTag is the parsed env binding of one config field.
type fieldTag struct {
	env      string
	alt      string
	def      string
	required bool
}

func parseTag(f reflect.StructField) (fieldTag, bool) {
	t := fieldTag{
		env:      f.Tag.Get("env"),
		alt:      f.Tag.Get("envAlt"),
		def:      f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
	}
	return t, t.env != ""
}

// lookup returns the first non-empty of the primary and alternate variables.
func (t fieldTag) lookup() string {
	if v := os.Getenv(t.env); v != "" {
		return v
	}
	if t.alt != "" {
		return os.Getenv(t.alt)
	}
	return ""
}

var durationType = reflect.TypeOf(time.Duration(0))

// loadStruct walks nested config structs and fills tagged fields. An env var
// wins over a value from the config file; a default only fills a field that
// is still zero. Every missing required variable is reported at once.
func loadStruct(v reflect.Value) error {
	var missing []string
	if err := walk(v, &missing); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

func walk(v reflect.Value, missing *[]string) error {
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := walk(fv, missing); err != nil {
				return err
			}
			continue
		}

		tag, ok := parseTag(sf)
		if !ok {
			continue
		}
		value := tag.lookup()
		switch {
		case value != "":
		case !fv.IsZero():
			continue
		case tag.required:
			*missing = append(*missing, tag.env)
			continue
		default:
			value = tag.def
		}
		if value == "" {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", tag.env, value, err)
		}
	}
	return nil
}

// setField parses value into a string, integer, duration or bool field.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// Validate checks the loaded values and reports every failure at once.
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}

	db, imp, lg := c.Database, c.Import, c.Logging

	check(oneOf(db.Driver, "sqlite", "pgx"), "DATABASE_DRIVER (%q) must be one of: sqlite, pgx", db.Driver)
	check(db.URL != "", "DATABASE_URL is required")
	check(db.MaxOpenConns > 0, "DB_MAX_OPEN_CONNS must be positive")
	check(db.MaxIdleConns >= 0, "DB_MAX_IDLE_CONNS must be non-negative")
	check(db.MaxIdleConns <= db.MaxOpenConns, "DB_MAX_IDLE_CONNS (%d) must be <= DB_MAX_OPEN_CONNS (%d)",
		db.MaxIdleConns, db.MaxOpenConns)
	check(db.BusyTimeout >= 0, "DB_BUSY_TIMEOUT must be non-negative")

	check(imp.MaxFileSize > 0, "IMPORT_MAX_FILE_SIZE must be positive")
	check(oneOf(strings.ToLower(imp.Encoding), "utf-8", "shift_jis"),
		"IMPORT_ENCODING (%q) must be one of: utf-8, shift_jis", imp.Encoding)
	check(imp.Timeout > 0, "IMPORT_TIMEOUT must be positive")
	check(imp.MaxConcurrent > 0, "IMPORT_MAX_CONCURRENT must be positive")
	check(imp.LockWait > 0, "IMPORT_LOCK_WAIT must be positive")

	check(oneOf(strings.ToLower(lg.Level), "debug", "info", "warn", "error"),
		"LOG_LEVEL (%q) must be one of: debug, info, warn, error", lg.Level)
	check(oneOf(strings.ToLower(lg.Format), "text", "json"),
		"LOG_FORMAT (%q) must be one of: text, json", lg.Format)

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	return slices.Contains(allowed, v)
}

// String returns a safe string representation of the config for logging.
// PostgreSQL URLs are masked; a SQLite path carries no credentials.
func (c *Config) String() string {
	url := "[MASKED]"
	if c.Database.IsSQLite() {
		url = c.Database.URL
	}

	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Database: {Driver: %q, URL: %s, MaxOpenConns: %d, MaxIdleConns: %d}, ",
		c.Database.Driver, url, c.Database.MaxOpenConns, c.Database.MaxIdleConns)
	fmt.Fprintf(&b, "Import: {Dir: %q, Encoding: %q, MaxFileSize: %d, Timeout: %s}, ",
		c.Import.Dir, c.Import.Encoding, c.Import.MaxFileSize, c.Import.Timeout)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
