package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		BotToken           string `yaml:"bot_token"`
		ChannelID          int64  `yaml:"channel_id"`
		ChannelUsername    string `yaml:"channel_username"`
		PollTimeoutSeconds int    `yaml:"poll_timeout_seconds"`
		Debug              bool   `yaml:"debug"`
	} `yaml:"telegram"`

	// Timezone is the calendar the announcements live in; dates are never
	// shifted through UTC.
	Timezone string `yaml:"timezone"`

	API struct {
		ListenAddr      string  `yaml:"listen_addr"`
		HistoryLimit    int     `yaml:"history_limit"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RateLimitRPS    float64 `yaml:"rate_limit_rps"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
	} `yaml:"api"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Cleanup struct {
		Enabled       bool `yaml:"enabled"`
		IntervalHours int  `yaml:"interval_hours"`
	} `yaml:"cleanup"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Kyiv"
	}
	if cfg.Telegram.PollTimeoutSeconds <= 0 {
		cfg.Telegram.PollTimeoutSeconds = 60
	}
	if cfg.API.ListenAddr == "" {
		cfg.API.ListenAddr = ":8080"
	}
	if cfg.API.HistoryLimit <= 0 {
		cfg.API.HistoryLimit = 10
	}
	if cfg.API.RateLimitRPS <= 0 {
		cfg.API.RateLimitRPS = 20
	}
	if cfg.API.RateLimitBurst <= 0 {
		cfg.API.RateLimitBurst = 30
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CacheTTL returns the API response cache TTL; zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	if c.API.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

// CleanupInterval returns the archived-record cleanup period.
func (c *Config) CleanupInterval() time.Duration {
	if c.Cleanup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Cleanup.IntervalHours) * time.Hour
}
