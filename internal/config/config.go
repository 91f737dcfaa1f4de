package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const devFrameSecret = "gashawk-dev-frame-secret"

type Config struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	PublicURL string `yaml:"public_url"`

	EtherscanAPIKey string `yaml:"etherscan_api_key"`
	EtherscanURL    string `yaml:"etherscan_api_url"`
	ENSURL          string `yaml:"ens_api_url"`
	CoinGeckoURL    string `yaml:"coingecko_api_url"`

	FrameSecret     string        `yaml:"frame_secret"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`

	RateLimitPerMinute float64 `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`

	// DBSource enables the report log when set.
	DBSource string `yaml:"db_source"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		Env:                "development",
		PublicURL:          "http://localhost:8080",
		EtherscanURL:       "https://api.etherscan.io/v2/api",
		ENSURL:             "https://api.ensdata.net",
		CoinGeckoURL:       "https://api.coingecko.com/api/v3",
		UpstreamTimeout:    10 * time.Second,
		RateLimitPerMinute: 120,
		RateLimitBurst:     20,
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads CONFIG_FILE (YAML) when set, then applies environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	setString(&cfg.Port, "SERVER_PORT")
	setString(&cfg.Env, "ENVIRONMENT")
	setString(&cfg.PublicURL, "PUBLIC_URL")
	setString(&cfg.EtherscanAPIKey, "ETHERSCAN_API_KEY")
	setString(&cfg.EtherscanURL, "ETHERSCAN_API_URL")
	setString(&cfg.ENSURL, "ENS_API_URL")
	setString(&cfg.CoinGeckoURL, "COINGECKO_API_URL")
	setString(&cfg.FrameSecret, "FRAME_SECRET")
	setString(&cfg.DBSource, "DB_SOURCE")
	setString(&cfg.Log.File, "LOG_FILE")

	var err error
	if cfg.UpstreamTimeout, err = durationEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = floatEnv("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.Log.MaxSizeMB, err = intEnv("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB); err != nil {
		return nil, err
	}
	if cfg.Log.MaxBackups, err = intEnv("LOG_MAX_BACKUPS", cfg.Log.MaxBackups); err != nil {
		return nil, err
	}
	if cfg.Log.MaxAgeDays, err = intEnv("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays); err != nil {
		return nil, err
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	if c.IsProduction() {
		if c.EtherscanAPIKey == "" {
			return fmt.Errorf("ETHERSCAN_API_KEY environment variable is required")
		}
		if c.FrameSecret == "" {
			return fmt.Errorf("FRAME_SECRET environment variable is required")
		}
	}
	if c.FrameSecret == "" {
		c.FrameSecret = devFrameSecret
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
