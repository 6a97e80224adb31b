package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// PanelConfig represents the complete configuration
type PanelConfig struct {
	Billing BillingConfig `toml:"billing"`
	Queuing QueuingConfig `toml:"queuing"`
	Sweep   SweepConfig   `toml:"sweep"`
}

// BillingConfig contains payment provider settings
type BillingConfig struct {
	APIKey        string `toml:"api_key"`
	WebhookSecret string `toml:"webhook_secret"`
	PanelURL      string `toml:"panel_url"`
}

// QueuingConfig contains Redis and concurrency settings
type QueuingConfig struct {
	RedisAddr       string         `toml:"redis_addr"`
	RedisPassword   string         `toml:"redis_password"`
	RedisDB         int            `toml:"redis_db"`
	Concurrency     int            `toml:"concurrency"`
	QueuePriorities map[string]int `toml:"queue_priorities"`
}

// SweepConfig contains pending session sweep settings
type SweepConfig struct {
	IntervalMinutes   int `toml:"interval_minutes"`
	StaleAfterMinutes int `toml:"stale_after_minutes"`
	BatchSize         int `toml:"batch_size"`
}

// LoadPanelConfig loads configuration from a TOML file
func LoadPanelConfig(filename string) (*PanelConfig, error) {
	config := &PanelConfig{}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyDefaults(config)
	return config, nil
}

// Defaults returns configuration with built-in defaults, used when no
// config file is provided.
func Defaults() *PanelConfig {
	config := &PanelConfig{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *PanelConfig) {
	if config.Queuing.Concurrency == 0 {
		config.Queuing.Concurrency = 10
	}
	if len(config.Queuing.QueuePriorities) == 0 {
		config.Queuing.QueuePriorities = map[string]int{
			"notifications": 6,
			"billing":       4,
		}
	}
	if config.Sweep.IntervalMinutes == 0 {
		config.Sweep.IntervalMinutes = 15
	}
	if config.Sweep.StaleAfterMinutes == 0 {
		config.Sweep.StaleAfterMinutes = 60
	}
	if config.Sweep.BatchSize == 0 {
		config.Sweep.BatchSize = 100
	}
	if config.Billing.PanelURL == "" {
		config.Billing.PanelURL = "http://localhost:3000"
	}
}
