package bot

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/gotto/core/config"
	coredatabase "github.com/m3rciful/gotto/core/database"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig selects where sessions live.
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
}

// Config is the bot configuration: the shared core sections plus storage.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database"`
}

// LoadConfig reads path, applies environment overrides and validates.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Normalize validates the core sections and the storage selection.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	driver := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if driver == "" {
		driver = StorageMemory
	}
	switch driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when storage.driver is 'postgres'")
		}
		if strings.TrimSpace(c.Database.Port) == "" {
			c.Database.Port = "5432"
		}
	default:
		return fmt.Errorf("invalid storage.driver: %s (expected 'memory' or 'postgres')", c.Storage.Driver)
	}
	c.Storage.Driver = driver
	return nil
}

// DatabaseConfig returns the database section when sessions are durable.
func (c *Config) DatabaseConfig() *coredatabase.Config {
	if c.Storage.Driver != StoragePostgres {
		return nil
	}
	return &c.Database
}
