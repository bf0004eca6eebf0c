package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full robot configuration. Credentials and tokens never live
// in the YAML file; they come from the environment (or a .env file).
type Config struct {
	Trading  TradingConfig  `yaml:"trading"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Journal  JournalConfig  `yaml:"journal"`
	Notify   NotifyConfig   `yaml:"notify"`
	Audio    AudioConfig    `yaml:"audio"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// TradingConfig controls the trade cycle.
type TradingConfig struct {
	WorkOrderFile    string `yaml:"work_order_file"`
	PercentOfBalance int    `yaml:"percent_of_balance"` // 10–100, share of fiat used for buys
}

// ExchangeConfig points at the exchange REST API.
type ExchangeConfig struct {
	APIBase               string `yaml:"api_base"`
	AdjustmentPollMinutes int    `yaml:"adjustment_poll_minutes"`

	// From the environment only.
	Key        string `yaml:"-"`
	Secret     string `yaml:"-"`
	Passphrase string `yaml:"-"`
}

// JournalConfig controls the trade history database.
type JournalConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, ":memory:", or empty to disable
}

// NotifyConfig controls push notifications.
type NotifyConfig struct {
	PushbulletToken string `yaml:"-"` // PUSHBULLET_TOKEN; console output when empty
}

// AudioConfig controls the completion cues.
type AudioConfig struct {
	Player  string `yaml:"player"` // player command, default aplay
	BuyCue  string `yaml:"buy_cue"`
	SellCue string `yaml:"sell_cue"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // e.g. ":9108", empty to disable
}

// LogConfig controls the format and level of logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present. Environment
// values override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present (silences the error if there is none).
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Allocation returns the fiat allocation as a fraction.
func (c *Config) Allocation() float64 {
	return float64(c.Trading.PercentOfBalance) / 100.0
}

// AdjustmentPollInterval returns how often the adjustment rates refresh.
func (c *Config) AdjustmentPollInterval() time.Duration {
	return time.Duration(c.Exchange.AdjustmentPollMinutes) * time.Minute
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COINBASE_KEY"); v != "" {
		cfg.Exchange.Key = v
	}
	if v := os.Getenv("COINBASE_SECRET"); v != "" {
		cfg.Exchange.Secret = v
	}
	if v := os.Getenv("COINBASE_PASSPHRASE"); v != "" {
		cfg.Exchange.Passphrase = v
	}
	if v := os.Getenv("PUSHBULLET_TOKEN"); v != "" {
		cfg.Notify.PushbulletToken = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Trading.WorkOrderFile == "" {
		cfg.Trading.WorkOrderFile = "work.order"
	}
	if cfg.Trading.PercentOfBalance == 0 {
		cfg.Trading.PercentOfBalance = 100
	}
	if cfg.Exchange.AdjustmentPollMinutes <= 0 {
		cfg.Exchange.AdjustmentPollMinutes = 15
	}
	if cfg.Audio.Player == "" {
		cfg.Audio.Player = "aplay"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
