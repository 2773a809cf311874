package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Teams         TeamsConfig         `yaml:"teams"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL runs the service on an
// in-process bus.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the read API configuration.
type HTTPConfig struct {
	Address   string  `yaml:"address"`
	Token     string  `yaml:"token"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// TeamsConfig holds the team settings of guilds without a stored config.
type TeamsConfig struct {
	DefaultCapacity     int    `yaml:"default_capacity"`
	DefaultPrefix       string `yaml:"default_prefix"`
	DefaultHistoryLimit int    `yaml:"default_history_limit"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json|text
	Version     string `yaml:"version"`
}

// Defaults.
const (
	DefaultHTTPAddress = ":8080"
	DefaultRateLimit   = 10
	DefaultBurst       = 20
)

// LoadConfig loads the configuration from a YAML file. Environment variables
// override file values. Without a file the environment is the only source and
// DATABASE_URL and NATS_URL are required.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable not set")
		}
		if cfg.NATS.URL == "" {
			return nil, fmt.Errorf("NATS_URL environment variable not set")
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func (cfg *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_TOKEN"); v != "" {
		cfg.HTTP.Token = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("TEAM_DEFAULT_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid TEAM_DEFAULT_CAPACITY value: %q", v)
		}
		cfg.Teams.DefaultCapacity = n
	}
	if v := os.Getenv("TEAM_DEFAULT_PREFIX"); v != "" {
		cfg.Teams.DefaultPrefix = v
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = DefaultHTTPAddress
	}
	if cfg.HTTP.RateLimit <= 0 {
		cfg.HTTP.RateLimit = DefaultRateLimit
	}
	if cfg.HTTP.Burst <= 0 {
		cfg.HTTP.Burst = DefaultBurst
	}
	if cfg.Teams.DefaultCapacity <= 0 {
		cfg.Teams.DefaultCapacity = guildtypes.DefaultTeamCapacity
	}
	if cfg.Teams.DefaultPrefix == "" {
		cfg.Teams.DefaultPrefix = guildtypes.DefaultTeamPrefix
	}
	if cfg.Teams.DefaultHistoryLimit <= 0 {
		cfg.Teams.DefaultHistoryLimit = guildtypes.DefaultHistoryLimit
	}
}

// TeamDefaults returns the settings of guilds without a stored config.
func (cfg *Config) TeamDefaults() guildtypes.TeamSettings {
	return guildtypes.TeamSettings{
		Capacity:     cfg.Teams.DefaultCapacity,
		Prefix:       cfg.Teams.DefaultPrefix,
		HistoryLimit: cfg.Teams.DefaultHistoryLimit,
	}
}

func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "roster-bot",
		Environment: appCfg.Observability.Environment,
		Version:     appCfg.Observability.Version,
		LogLevel:    appCfg.Observability.LogLevel,
		LogFormat:   appCfg.Observability.LogFormat,
	}
}
