// Package config loads eventbot's runtime configuration from the
// environment. Schema metadata (table names, store paths) lives here, not
// on the domain types.
package config

import (
	"fmt"

	env "github.com/Netflix/go-env"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config is eventbot's environment-driven configuration.
type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=8080"`

	// StorageBackend selects the record store: sqlite (default) or badger.
	StorageBackend string `env:"STORAGE_BACKEND,default=sqlite"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"DB_PATH,default=./data/eventbot.db"`
	// BadgerPath is the Badger database directory.
	BadgerPath string `env:"BADGER_PATH,default=./data/eventbot"`

	// EventsTable and UsersTable name the two record collections in the
	// SQLite backend.
	EventsTable string `env:"EVENTS_TABLE,default=events"`
	UsersTable  string `env:"USERS_TABLE,default=users"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StorageBackend != BackendSQLite && cfg.StorageBackend != BackendBadger {
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	return cfg, nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
