package config

import (
	"fmt"
	"time"
)

// ServerConfig is the runtime configuration of cmd/bakery-server.
type ServerConfig struct {
	Addr             string        `env:"BAKERY_ADDR" envDefault:":8080"`
	DBPath           string        `env:"BAKERY_DB_PATH" envDefault:"./data/bakery.db"`
	SaveKey          string        `env:"BAKERY_SAVE_KEY" envDefault:"biscoito_clicker_save_v2"`
	TickInterval     time.Duration `env:"BAKERY_TICK_INTERVAL" envDefault:"100ms"`
	AutosaveInterval time.Duration `env:"BAKERY_AUTOSAVE_INTERVAL" envDefault:"30s"`
	BalanceFile      string        `env:"BAKERY_BALANCE_FILE"`
	Profile          string        `env:"BAKERY_PROFILE" envDefault:"default"`
	Seed             uint64        `env:"BAKERY_SEED"` // 0 picks a random seed
	EventRetention   int           `env:"BAKERY_EVENT_RETENTION" envDefault:"1000"`
}

// LoadServerConfig parses and validates ServerConfig from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c ServerConfig) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("BAKERY_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.AutosaveInterval < c.TickInterval {
		return fmt.Errorf("BAKERY_AUTOSAVE_INTERVAL (%s) must be at least the tick interval (%s)", c.AutosaveInterval, c.TickInterval)
	}
	if c.SaveKey == "" {
		return fmt.Errorf("BAKERY_SAVE_KEY must not be empty")
	}
	return nil
}
