// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before the YAML file is decoded.
const (
	DefaultStationID       = "station-01"
	DefaultTickInterval    = 3 * time.Second
	DefaultAdminAddr       = ":8080"
	DefaultPreferencesPath = "preferences.yaml"
	DefaultGreptimeDB      = "public"
	DefaultGreptimeTable   = "sensor_readings"
	DefaultPostgresTable   = "sensor_readings"
	DefaultNATSSubject     = "ecopulse.readings"
)

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AdminConfig controls the admin HTTP server.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// GreptimeConfig targets a GreptimeDB gRPC endpoint ("host[:port]").
type GreptimeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// PostgresConfig targets a PostgreSQL database via lib/pq.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// NATSConfig targets a NATS server.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SinksConfig lists optional external sinks. Empty endpoints disable a sink.
type SinksConfig struct {
	Greptime GreptimeConfig `yaml:"greptime"`
	Postgres PostgresConfig `yaml:"postgres"`
	NATS     NATSConfig     `yaml:"nats"`
}

// Config is the root simulator configuration.
type Config struct {
	StationID       string        `yaml:"station_id"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	Seed            int64         `yaml:"seed"`
	PreferencesPath string        `yaml:"preferences_path"`
	Log             LogConfig     `yaml:"log"`
	Admin           AdminConfig   `yaml:"admin"`
	Sinks           SinksConfig   `yaml:"sinks"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		StationID:       DefaultStationID,
		TickInterval:    DefaultTickInterval,
		PreferencesPath: DefaultPreferencesPath,
		Log:             LogConfig{Level: "info", Format: "text"},
		Admin:           AdminConfig{Enabled: true, Addr: DefaultAdminAddr},
		Sinks: SinksConfig{
			Greptime: GreptimeConfig{Database: DefaultGreptimeDB, Table: DefaultGreptimeTable},
			Postgres: PostgresConfig{Table: DefaultPostgresTable},
			NATS:     NATSConfig{Subject: DefaultNATSSubject},
		},
	}
}

// Load reads configPath, validates it against the CUE schema and decodes it
// over the defaults. An empty configPath returns the defaults. An empty
// cueSchemaPath uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}
	schema := embeddedSchema
	if cueSchemaPath != "" {
		if schema, err = os.ReadFile(cueSchemaPath); err != nil {
			return nil, fmt.Errorf("read CUE schema %q: %w", cueSchemaPath, err)
		}
	}
	if err := ValidateWithCue(data, schema); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", configPath, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides deployment values from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STATION_ID"); v != "" {
		c.StationID = v
	}
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL: %w", err)
		}
		c.TickInterval = d
	}
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		c.Sinks.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_TABLE"); v != "" {
		c.Sinks.Greptime.Table = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Sinks.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.Sinks.NATS.URL = v
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.StationID == "" {
		return fmt.Errorf("station_id must not be empty")
	}
	return nil
}
