package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"cashgame-server/internal/util"
	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/hand"
)

// Config provides configuration for the cash game server
type Config struct {
	loaded bool
	Log    struct {
		Level  string `yaml:"level" envconfig:"level"`
		Format string `yaml:"format" envconfig:"format"`
	} `yaml:"log"`
	// Blinds are the default blinds of a new session
	Blinds struct {
		Small string `yaml:"small" envconfig:"small"`
		Big   string `yaml:"big" envconfig:"big"`
	} `yaml:"blinds"`
	Allocator struct {
		BigBuyIn   string `yaml:"bigBuyIn" envconfig:"big_buy_in"`
		SmallBuyIn string `yaml:"smallBuyIn" envconfig:"small_buy_in"`
	} `yaml:"allocator"`
	// CroupierLeaseSeconds is how long a croupier keeps the seat without a heartbeat
	CroupierLeaseSeconds int `yaml:"croupierLeaseSeconds" envconfig:"croupier_lease_seconds"`
}

var config Config

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() Config {
	var cfg Config
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Blinds.Small = "0.25"
	cfg.Blinds.Big = "0.50"
	cfg.Allocator.BigBuyIn = "50"
	cfg.Allocator.SmallBuyIn = "30"
	cfg.CroupierLeaseSeconds = 30

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error, the defaults are used instead
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("CGS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	case !os.IsNotExist(err):
		return err
	}

	if err := envconfig.Process("cgs", &cfg); err != nil {
		return err
	}

	if _, err := cfg.HandOptions(); err != nil {
		return err
	}

	if _, err := cfg.ChipAllocator(); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// HandOptions returns the default blinds
func (c Config) HandOptions() (hand.Options, error) {
	small, err := decimal.NewFromString(c.Blinds.Small)
	if err != nil {
		return hand.Options{}, fmt.Errorf("invalid small blind %q: %w", c.Blinds.Small, err)
	}

	big, err := decimal.NewFromString(c.Blinds.Big)
	if err != nil {
		return hand.Options{}, fmt.Errorf("invalid big blind %q: %w", c.Blinds.Big, err)
	}

	opts := hand.Options{SmallBlind: small, BigBlind: big}
	if err := opts.Validate(); err != nil {
		return hand.Options{}, err
	}

	return opts, nil
}

// ChipAllocator returns an allocator with the configured buy-in tiers
func (c Config) ChipAllocator() (chips.Allocator, error) {
	big, err := decimal.NewFromString(c.Allocator.BigBuyIn)
	if err != nil {
		return chips.Allocator{}, fmt.Errorf("invalid big buy-in %q: %w", c.Allocator.BigBuyIn, err)
	}

	small, err := decimal.NewFromString(c.Allocator.SmallBuyIn)
	if err != nil {
		return chips.Allocator{}, fmt.Errorf("invalid small buy-in %q: %w", c.Allocator.SmallBuyIn, err)
	}

	return chips.Allocator{BigBuyIn: big, SmallBuyIn: small}, nil
}

// CroupierLease returns how long a croupier may go without a heartbeat
func (c Config) CroupierLease() time.Duration {
	return time.Duration(c.CroupierLeaseSeconds) * time.Second
}
