// Package config loads and validates the service configuration. Scoring
// thresholds are named, overridable constants: the YAML file can re-weight a
// version or tune a tolerance, but invalid weight tables are rejected at load
// time rather than corrupting every composite downstream.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Scoring ScoringConfig `yaml:"scoring"`
	Store   StoreConfig   `yaml:"store"`
}

// ServerConfig configures the HTTP interface.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	RateLimitRPS float64       `yaml:"rate_limit_rps"`
	RateBurst    int           `yaml:"rate_burst"`
}

// ScoringConfig configures the registry and aggregator.
type ScoringConfig struct {
	Alpha          float64                       `yaml:"alpha"`           // EMA smoothing factor
	DefaultVersion string                        `yaml:"default_version"` // used when requests name none
	Versions       map[string]map[string]float64 `yaml:"versions"`        // version -> dimension -> weight
	HistorySize    int                           `yaml:"history_size"`    // originality ring length
}

// StoreConfig configures the optional persistence sinks. Empty values
// disable a sink; scoring never depends on either.
type StoreConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
}

// Default returns the production configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			RateLimitRPS: 50,
			RateBurst:    100,
		},
		Scoring: ScoringConfig{
			Alpha:          0.3,
			DefaultVersion: "v1",
			HistorySize:    10,
		},
	}
}

// Load reads a YAML configuration file over the defaults and validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would corrupt scoring.
func (c *Config) Validate() error {
	if c.Scoring.Alpha <= 0 || c.Scoring.Alpha > 1 {
		return fmt.Errorf("scoring.alpha %.3f outside (0,1]", c.Scoring.Alpha)
	}
	if c.Scoring.HistorySize < 1 {
		return fmt.Errorf("scoring.history_size must be at least 1")
	}
	if c.Scoring.DefaultVersion == "" {
		return fmt.Errorf("scoring.default_version must not be empty")
	}
	for version, weights := range c.Scoring.Versions {
		sum := 0.0
		for dim, w := range weights {
			if w < 0 {
				return fmt.Errorf("version %s: dimension %q has negative weight", version, dim)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 0.01 {
			return fmt.Errorf("version %s: weights sum to %.3f, expected 1.000", version, sum)
		}
	}
	// With configured versions the default must be one of them; without any,
	// the built-in registry resolves it at startup.
	if len(c.Scoring.Versions) > 0 {
		if _, ok := c.Scoring.Versions[c.Scoring.DefaultVersion]; !ok {
			return fmt.Errorf("scoring.default_version %q is not among the configured versions", c.Scoring.DefaultVersion)
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}
