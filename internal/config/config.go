// Package config loads runtime configuration: an optional YAML file with
// environment-variable overrides. A .env file in the working directory is
// folded into the environment first, so local setups need no shell
// exports.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tabletalk/tabletalk/internal/store"
)

// Config is the full runtime configuration.
type Config struct {
	Database Database `yaml:"database"`
	Server   Server   `yaml:"server"`
}

// Database selects and parameterizes the store driver.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Server configures the HTTP boundary.
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the zero-setup configuration: local SQLite file,
// loopback-free listen address.
func Default() Config {
	return Config{
		Database: Database{
			Driver: store.DriverSQLite,
			DSN:    "tabletalk.db",
		},
		Server: Server{
			ListenAddr: ":8080",
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist) and applies environment overrides on top of the
// defaults. Environment keys: DB_DRIVER, DB_DSN, LISTEN_ADDR.
func Load(path string) (Config, error) {
	// Missing .env files are the common case, not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want %s or %s)",
			c.Database.Driver, store.DriverSQLite, store.DriverPostgres)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	return nil
}
