// Package config loads application settings from an optional YAML file
// and SAMPLER_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ptbr-tools/sampler-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Lookup  LookupConfig  `yaml:"lookup" mapstructure:"lookup"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the optional run-tracking store.
type StoreConfig struct {
	// Driver selects the backend: "none", "sqlite" or "postgres".
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	Path        string           `yaml:"path" mapstructure:"path"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// LookupConfig configures the CEP directory lookups.
type LookupConfig struct {
	Workers     int    `yaml:"workers" mapstructure:"workers"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ViaCEPURL   string `yaml:"viacep_url" mapstructure:"viacep_url"`
	BrasilAPURL string `yaml:"brasilapi_url" mapstructure:"brasilapi_url"`
	RateLimit   int    `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// Timeout returns the per-batch lookup deadline.
func (c LookupConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// DatasetConfig configures the location data and its sync sources.
type DatasetConfig struct {
	// Path points at a locations.json overriding the embedded dataset.
	Path      string `yaml:"path" mapstructure:"path"`
	Manifest  string `yaml:"manifest" mapstructure:"manifest"`
	StatePath string `yaml:"state_path" mapstructure:"state_path"`
}

// OutputConfig configures JSONL output.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Append bool   `yaml:"append" mapstructure:"append"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SAMPLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.path", "sampler.db")
	v.SetDefault("lookup.workers", 8)
	v.SetDefault("lookup.timeout_secs", 10)
	v.SetDefault("lookup.viacep_url", "https://viacep.com.br/ws")
	v.SetDefault("lookup.brasilapi_url", "https://brasilapi.com.br/api/cep/v1")
	v.SetDefault("lookup.rate_limit", 10)
	v.SetDefault("dataset.state_path", ".sampler-sync.yaml")
	v.SetDefault("output.append", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields the given mode depends on. Modes map to
// subcommands: "sample", "serve", "sync".
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Lookup.Workers >= 1 && c.Lookup.Workers <= 64, "lookup.workers must be between 1 and 64")
	check(c.Lookup.TimeoutSecs > 0, "lookup.timeout_secs must be > 0")

	switch c.Store.Driver {
	case "", "none", "sqlite":
	case "postgres":
		check(c.Store.DatabaseURL != "", "store.database_url is required for the postgres driver")
	default:
		problems = append(problems, "store.driver must be none, sqlite or postgres")
	}

	switch mode {
	case "sample", "sync":
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
